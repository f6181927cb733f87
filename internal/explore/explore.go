// Package explore profiles dataset files: structure, sample rows and a
// rough per-column type guess.
package explore

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
)

const (
	// SampleRows is how many data rows are printed per file.
	SampleRows = 3
	// SampleFields is how many fields of each sample row are printed.
	SampleFields = 5
	// TypeSample is how many data rows the type guess looks at.
	TypeSample = 100
)

// Type is the guessed kind of a column.
type Type string

const (
	TypeEmpty       Type = "Empty"
	TypeNumeric     Type = "Numeric"
	TypeCategorical Type = "Categorical"
	TypeDateTime    Type = "DateTime"
	TypeText        Type = "Text"
)

// ColumnType is the guess for one column over the sampled rows.
type ColumnType struct {
	Name   string
	Type   Type
	Unique int
}

// Profile describes one dataset file.
type Profile struct {
	Name      string
	Path      string
	Header    []string
	Sample    [][]string
	Rows      int
	SizeBytes int64
	Types     []ColumnType
}

// Structure loads path and profiles it.
func Structure(path string, opt dataset.Options) (*Profile, error) {
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	p := &Profile{
		Name:      t.Name,
		Path:      path,
		Header:    t.Header,
		Rows:      t.TotalRows,
		SizeBytes: info.Size(),
		Types:     ColumnTypes(t, TypeSample),
	}
	n := min(SampleRows, len(t.Rows))
	p.Sample = t.Rows[:n:n]
	return p, nil
}

// ColumnTypes guesses a Type for every column from the first sample rows.
// Checks run in order: no values is Empty; all values made of digits once
// ',' '.' '-' are removed is Numeric; fewer distinct values than 10% of the
// values is Categorical; a name mentioning date, time or created is DateTime;
// anything else is Text.
func ColumnTypes(t *dataset.Table, sample int) []ColumnType {
	rows := t.Rows
	if sample > 0 && len(rows) > sample {
		rows = rows[:sample]
	}
	out := make([]ColumnType, len(t.Header))
	for i, name := range t.Header {
		var vals []string
		seen := map[string]struct{}{}
		for _, r := range rows {
			if i >= len(r) {
				continue
			}
			v := strings.TrimSpace(r[i])
			if v == "" {
				continue
			}
			vals = append(vals, v)
			seen[v] = struct{}{}
		}
		out[i] = ColumnType{Name: name, Type: guess(name, vals, len(seen)), Unique: len(seen)}
	}
	return out
}

func guess(name string, vals []string, unique int) Type {
	switch {
	case len(vals) == 0:
		return TypeEmpty
	case allDigits(vals):
		return TypeNumeric
	case float64(unique) < float64(len(vals))*0.1:
		return TypeCategorical
	case mentionsTime(name):
		return TypeDateTime
	default:
		return TypeText
	}
}

func allDigits(vals []string) bool {
	for _, v := range vals {
		d := strings.NewReplacer(",", "", ".", "", "-", "").Replace(v)
		if d == "" {
			return false
		}
		for _, r := range d {
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

func mentionsTime(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range []string{"date", "time", "created"} {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// Write prints the profile the way the explore command shows it.
func (p *Profile) Write(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nEXPLORING: %s\n%s\n", rule, p.Name, rule)
	fmt.Fprintf(w, "Columns: %d\n", len(p.Header))
	fmt.Fprintln(w, "Column names:")
	for i, h := range p.Header {
		fmt.Fprintf(w, "   %2d. %s\n", i+1, h)
	}

	fmt.Fprintf(w, "\nSample Data (first %d rows):\n", SampleRows)
	for i, r := range p.Sample {
		fmt.Fprintf(w, "\nRow %d:\n", i+1)
		for j := 0; j < SampleFields && j < len(r) && j < len(p.Header); j++ {
			fmt.Fprintf(w, "   %s: %s\n", p.Header[j], r[j])
		}
		if len(r) > SampleFields {
			fmt.Fprintf(w, "   ... and %d more columns\n", len(r)-SampleFields)
		}
	}

	fmt.Fprintf(w, "\nTotal data rows: %s\n", humanize.Comma(int64(p.Rows)))
	fmt.Fprintf(w, "File size: %.1f MB\n", float64(p.SizeBytes)/(1024*1024))

	fmt.Fprintln(w, "\nColumn Type Analysis:")
	for _, c := range p.Types {
		fmt.Fprintf(w, "   %-30s | %-12s | %4d unique values\n", c.Name, c.Type, c.Unique)
	}
}

// Totals accumulates counts over every explored file.
type Totals struct {
	Files   int
	Records int
	Bytes   int64
}

// Add counts p; a nil profile (missing file) counts as a file with no records.
func (t *Totals) Add(p *Profile) {
	t.Files++
	if p == nil {
		return
	}
	t.Records += p.Rows
	t.Bytes += p.SizeBytes
}

// Write prints the closing summary block.
func (t Totals) Write(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nDATASET SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total files: %d\n", t.Files)
	fmt.Fprintf(w, "Total records: %s\n", humanize.Comma(int64(t.Records)))
	fmt.Fprintf(w, "Total size: %s\n", humanize.Bytes(uint64(t.Bytes)))
	fmt.Fprintln(w, "Platforms: Facebook (posts + ads), Twitter")
	fmt.Fprintln(w, "Time period: 2024 US Presidential Election")
}
