package summary

import (
	"sort"
	"strings"
)

// ClassifyAndSummarize computes stats for every column of header over rows.
//
// A column is numeric when each of its non-empty cells is a numeric candidate
// (see ParseNumeric); it then gets count, mean, min, max and sample standard
// deviation. Any other column with at least one non-empty cell is categorical
// and gets its distinct raw-value count and the TopK most frequent raw values,
// ties kept in order of first appearance. Columns with no non-empty cells are
// omitted. Rows shorter than header contribute empty cells.
func ClassifyAndSummarize(header []string, rows [][]string) *Summary {
	s := &Summary{Rows: len(rows), Columns: make([]ColumnStats, 0, len(header))}
	for i, name := range header {
		if cs, ok := summarizeColumn(name, i, rows); ok {
			s.Columns = append(s.Columns, cs)
		}
	}
	return s
}

func summarizeColumn(name string, idx int, rows [][]string) (ColumnStats, bool) {
	var (
		nums     []float64
		nonEmpty int
		numeric  = true
	)
	for _, r := range rows {
		if idx >= len(r) || strings.TrimSpace(r[idx]) == "" {
			continue
		}
		nonEmpty++
		if !numeric {
			continue
		}
		x, ok := ParseNumeric(r[idx])
		if !ok {
			numeric = false
			nums = nil
			continue
		}
		nums = append(nums, x)
	}
	if nonEmpty == 0 {
		return ColumnStats{}, false
	}
	if numeric {
		return ColumnStats{Name: name, Kind: KindNumeric, Numeric: describe(nums)}, true
	}
	return ColumnStats{Name: name, Kind: KindCategorical, Categorical: countValues(idx, rows)}, true
}

// countValues builds the frequency table of the raw non-empty cells at idx.
func countValues(idx int, rows [][]string) CategoricalStats {
	counts := newOrderedMap[string, int]()
	for _, r := range rows {
		if idx >= len(r) || strings.TrimSpace(r[idx]) == "" {
			continue
		}
		n, _ := counts.Get(r[idx])
		counts.Set(r[idx], n+1)
	}
	return topValues(counts)
}

func topValues(counts *orderedMap[string, int]) CategoricalStats {
	all := make([]ValueCount, 0, counts.Len())
	counts.Range(func(v string, n int) bool {
		all = append(all, ValueCount{Value: v, Count: n})
		return true
	})
	// stable: equal counts stay in first-appearance order
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	top := all
	if len(top) > TopK {
		top = top[:TopK:TopK]
	}
	return CategoricalStats{Unique: counts.Len(), Top: top}
}
