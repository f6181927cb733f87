// Package frame implements summary.Engine on top of a gota DataFrame.
//
// Column kinds come from the dataframe's type detection rather than the
// native cell-by-cell rule, and groups are listed in sorted key order the way
// a dataframe groupby reports them.
package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/socialstats-cli/internal/summary"
)

// Engine is the dataframe-backed summary.Engine.
type Engine struct{}

var _ summary.Engine = Engine{}

func (Engine) Name() string { return "dataframe" }

func (Engine) Summarize(header []string, rows [][]string) (*summary.Summary, error) {
	if len(rows) == 0 {
		return &summary.Summary{}, nil
	}
	df, err := load(header, rows)
	if err != nil {
		return nil, err
	}
	all := make([]int, len(rows))
	for i := range all {
		all[i] = i
	}
	return describeFrame(df, header, rows, all), nil
}

func (Engine) Group(header []string, rows [][]string, columns []string, limit int) (*summary.Grouping, error) {
	g := &summary.Grouping{Columns: append([]string(nil), columns...), Limit: limit}
	idxs := make([]int, 0, len(columns))
	for _, c := range columns {
		i := indexOf(header, c)
		if i < 0 {
			g.Missing = append(g.Missing, c)
			continue
		}
		idxs = append(idxs, i)
	}
	if len(g.Missing) > 0 || len(rows) == 0 {
		return g, nil
	}

	df, err := load(header, rows)
	if err != nil {
		return nil, err
	}
	keys, members := partition(rows, idxs)
	g.Total = len(keys)
	g.Truncated = limit > 0 && g.Total > limit
	if g.Truncated {
		keys = keys[:limit]
	}
	for _, k := range keys {
		m := members[encodeKey(k)]
		s := describeFrame(df.Subset(m), header, rows, m)
		s.Title = "Group " + g.Label(k)
		g.Groups = append(g.Groups, summary.Group{Key: k, Rows: len(m), Summary: s})
	}
	return g, nil
}

// load builds a typed DataFrame from text records. Blank cells become NaN.
func load(header []string, rows [][]string) (dataframe.DataFrame, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, r := range rows {
		rec := make([]string, len(header))
		for i := range rec {
			if i < len(r) && strings.TrimSpace(r[i]) != "" {
				rec[i] = r[i]
			}
		}
		records = append(records, rec)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load dataframe: %w", df.Err)
	}
	return df, nil
}

// describeFrame summarizes the member rows held in df. Columns are matched by
// position: the frame renames duplicate and blank header names, the summary
// keeps the header's.
func describeFrame(df dataframe.DataFrame, header []string, rows [][]string, members []int) *summary.Summary {
	s := &summary.Summary{Rows: len(members)}
	names := df.Names()
	for i, name := range header {
		col := df.Col(names[i])
		var (
			cs summary.ColumnStats
			ok bool
		)
		switch col.Type() {
		case series.Int, series.Float:
			cs, ok = numericColumn(name, col)
		default:
			cs, ok = categoricalColumn(name, i, rows, members)
		}
		if ok {
			s.Columns = append(s.Columns, cs)
		}
	}
	return s
}

func numericColumn(name string, col series.Series) (summary.ColumnStats, bool) {
	var vals []float64
	for _, v := range col.Float() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return summary.ColumnStats{}, false
	}
	present := series.Floats(vals)
	n := summary.NumericStats{
		Count: len(vals),
		Mean:  present.Mean(),
		Min:   present.Min(),
		Max:   present.Max(),
	}
	// StdDev of a single value is NaN
	if len(vals) > 1 {
		n.Std = present.StdDev()
	}
	return summary.ColumnStats{Name: name, Kind: summary.KindNumeric, Numeric: n}, true
}

// categoricalColumn is a value_counts over the raw cells of the member rows:
// descending count, ties by first appearance. Raw cells are used because the
// frame reads a literal "NaN" as missing.
func categoricalColumn(name string, idx int, rows [][]string, members []int) (summary.ColumnStats, bool) {
	var (
		order  []string
		counts = map[string]int{}
	)
	for _, m := range members {
		r := rows[m]
		if idx >= len(r) || strings.TrimSpace(r[idx]) == "" {
			continue
		}
		v := r[idx]
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return summary.ColumnStats{}, false
	}
	top := make([]summary.ValueCount, len(order))
	for i, v := range order {
		top[i] = summary.ValueCount{Value: v, Count: counts[v]}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > summary.TopK {
		top = top[:summary.TopK]
	}
	return summary.ColumnStats{
		Name:        name,
		Kind:        summary.KindCategorical,
		Categorical: summary.CategoricalStats{Unique: len(order), Top: top},
	}, true
}

// partition returns the distinct keys in sorted order and the row indexes of
// each, for use with DataFrame.Subset. Rows with a blank key cell are dropped,
// as a dataframe groupby does. DataFrame.GroupBy is not used: it joins key
// cells with "_" into one string, so ("a_b", "c") and ("a", "b_c") collide,
// and it rebuilds each group from maps, re-detecting types and reordering
// columns by name.
func partition(rows [][]string, idxs []int) ([]summary.GroupKey, map[string][]int) {
	members := map[string][]int{}
	var keys []summary.GroupKey
rows:
	for n, r := range rows {
		k := make(summary.GroupKey, len(idxs))
		for j, i := range idxs {
			if i >= len(r) || strings.TrimSpace(r[i]) == "" {
				continue rows
			}
			k[j] = r[i]
		}
		enc := encodeKey(k)
		if _, ok := members[enc]; !ok {
			keys = append(keys, k)
		}
		members[enc] = append(members[enc], n)
	}
	sort.SliceStable(keys, func(a, b int) bool { return lessKey(keys[a], keys[b]) })
	return keys, members
}

// lessKey orders tuples element-wise, numerically when both cells parse.
func lessKey(a, b summary.GroupKey) bool {
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		x, errA := strconv.ParseFloat(strings.TrimSpace(a[i]), 64)
		y, errB := strconv.ParseFloat(strings.TrimSpace(b[i]), 64)
		switch {
		case errA == nil && errB == nil && x != y:
			return x < y
		case errA == nil && errB != nil:
			return true
		case errA != nil && errB == nil:
			return false
		}
		return a[i] < b[i]
	}
	return false
}

func encodeKey(k summary.GroupKey) string {
	var b strings.Builder
	for _, v := range k {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
