// Package summary computes per-column descriptive statistics over a table of
// text cells, overall and within groups of rows sharing a key.
package summary

import (
	"fmt"
	"strings"
)

// Kind tags which payload of a ColumnStats is meaningful.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// TopK is the number of most frequent values kept for categorical columns.
const TopK = 5

// NumericStats summarizes the parsed values of a numeric column.
type NumericStats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	// Std is the sample standard deviation (n-1 denominator); 0 when Count == 1.
	Std float64
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string
	Count int
}

// CategoricalStats summarizes the raw values of a non-numeric column.
type CategoricalStats struct {
	Unique int
	Top    []ValueCount
}

// ColumnStats is the summary of one column: Numeric when Kind is KindNumeric,
// Categorical otherwise.
type ColumnStats struct {
	Name        string
	Kind        Kind
	Numeric     NumericStats
	Categorical CategoricalStats
}

// Summary holds the stats of every non-empty column, in header order.
type Summary struct {
	Title   string
	Rows    int
	Columns []ColumnStats
}

// Lookup returns the stats of the first column with the given name.
func (s *Summary) Lookup(name string) (ColumnStats, bool) {
	if s == nil {
		return ColumnStats{}, false
	}
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Numeric returns the numeric columns in header order.
func (s *Summary) Numeric() []ColumnStats { return s.byKind(KindNumeric) }

// Categorical returns the categorical columns in header order.
func (s *Summary) Categorical() []ColumnStats { return s.byKind(KindCategorical) }

func (s *Summary) byKind(k Kind) []ColumnStats {
	if s == nil {
		return nil
	}
	var out []ColumnStats
	for _, c := range s.Columns {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// GroupKey is the tuple of raw cell values at the grouping columns.
type GroupKey []string

// Group is one summarized group of a Grouping.
type Group struct {
	Key     GroupKey
	Rows    int
	Summary *Summary
}

// Grouping is the result of summarizing rows per distinct key.
type Grouping struct {
	Columns []string
	Limit   int
	// Total is the number of distinct keys found; Groups holds at most Limit of them.
	Total     int
	Truncated bool
	// Missing lists grouping columns absent from the header. When non-empty the
	// grouping was skipped and Groups is empty.
	Missing []string
	Groups  []Group
}

// Skipped reports whether the grouping could not be formed.
func (g *Grouping) Skipped() bool { return g == nil || len(g.Missing) > 0 }

// Label renders the key as {col: value, ...} using the grouping's column names.
func (g *Grouping) Label(k GroupKey) string {
	parts := make([]string, len(k))
	for i, v := range k {
		name := ""
		if i < len(g.Columns) {
			name = g.Columns[i]
		}
		parts[i] = fmt.Sprintf("%s: %s", name, v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
