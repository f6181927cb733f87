package summary

import (
	"strconv"
	"strings"
)

type bucket struct {
	key  GroupKey
	rows [][]string
}

// GroupAndSummarize partitions rows by the raw values at columns and summarizes
// the first limit groups in first-encounter order. A limit <= 0 summarizes
// every group. If any column is missing from header the returned Grouping has
// Missing set and no groups.
func GroupAndSummarize(header []string, rows [][]string, columns []string, limit int) *Grouping {
	g := &Grouping{Columns: append([]string(nil), columns...), Limit: limit}
	idxs := make([]int, 0, len(columns))
	for _, c := range columns {
		i := indexOf(header, c)
		if i < 0 {
			g.Missing = append(g.Missing, c)
			continue
		}
		idxs = append(idxs, i)
	}
	if len(g.Missing) > 0 {
		return g
	}

	buckets := partition(rows, idxs)
	g.Total = buckets.Len()
	g.Truncated = limit > 0 && g.Total > limit
	buckets.Range(func(_ string, b *bucket) bool {
		if limit > 0 && len(g.Groups) >= limit {
			return false
		}
		s := ClassifyAndSummarize(header, b.rows)
		s.Title = "Group " + g.Label(b.key)
		g.Groups = append(g.Groups, Group{Key: b.key, Rows: len(b.rows), Summary: s})
		return true
	})
	return g
}

// partition scans rows once, bucketing them by key in first-encounter order.
func partition(rows [][]string, idxs []int) *orderedMap[string, *bucket] {
	out := newOrderedMap[string, *bucket]()
	for _, r := range rows {
		key := make(GroupKey, len(idxs))
		for j, i := range idxs {
			if i < len(r) {
				key[j] = r[i]
			}
		}
		enc := encodeKey(key)
		b, ok := out.Get(enc)
		if !ok {
			b = &bucket{key: key}
			out.Set(enc, b)
		}
		b.rows = append(b.rows, r)
	}
	return out
}

// encodeKey length-prefixes each value so distinct tuples never collide.
func encodeKey(k GroupKey) string {
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
