package summary

import (
	"math"
	"reflect"
	"testing"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
)

var (
	exampleHeader = []string{"id", "amount", "region"}
	exampleRows   = [][]string{
		{"1", "10", "east"},
		{"2", "20", "east"},
		{"3", "", "west"},
	}
)

func TestClassifyAndSummarizeExample(t *testing.T) {
	s := ClassifyAndSummarize(exampleHeader, exampleRows)

	amount, ok := s.Lookup("amount")
	if !ok || amount.Kind != KindNumeric {
		t.Fatalf("amount = %#v", amount)
	}
	n := amount.Numeric
	if n.Count != 2 || n.Mean != 15 || n.Min != 10 || n.Max != 20 {
		t.Fatalf("amount stats = %#v", n)
	}
	if !almostEqual(n.Std, math.Sqrt(50), 1e-12) {
		t.Fatalf("amount std = %v, want 7.0710...", n.Std)
	}

	region, ok := s.Lookup("region")
	if !ok || region.Kind != KindCategorical {
		t.Fatalf("region = %#v", region)
	}
	want := []ValueCount{{"east", 2}, {"west", 1}}
	if region.Categorical.Unique != 2 || !reflect.DeepEqual(region.Categorical.Top, want) {
		t.Fatalf("region stats = %#v", region.Categorical)
	}

	if id, _ := s.Lookup("id"); id.Kind != KindNumeric || id.Numeric.Count != 3 {
		t.Fatalf("id = %#v", id)
	}
	if s.Rows != 3 {
		t.Fatalf("rows = %d", s.Rows)
	}
}

func TestSingleValueStdIsZero(t *testing.T) {
	s := ClassifyAndSummarize([]string{"x"}, [][]string{{"42"}})
	c, _ := s.Lookup("x")
	if c.Numeric.Std != 0 || math.IsNaN(c.Numeric.Std) {
		t.Fatalf("std = %v, want 0", c.Numeric.Std)
	}
}

func TestMeanMatchesSumOverCount(t *testing.T) {
	rows := [][]string{{"1.5"}, {" 2,000 "}, {"-3e2"}, {"7"}, {""}, {"0.25"}}
	s := ClassifyAndSummarize([]string{"v"}, rows)
	c, _ := s.Lookup("v")
	vals := []float64{1.5, 2000, -300, 7, 0.25}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	if c.Numeric.Count != len(vals) {
		t.Fatalf("count = %d", c.Numeric.Count)
	}
	if !almostEqual(c.Numeric.Mean, sum/float64(len(vals)), 1e-9) {
		t.Fatalf("mean = %v, want %v", c.Numeric.Mean, sum/float64(len(vals)))
	}
	if c.Numeric.Min != -300 || c.Numeric.Max != 2000 {
		t.Fatalf("min/max = %v/%v", c.Numeric.Min, c.Numeric.Max)
	}
	if !almostEqual(c.Numeric.Std, sampleStd(vals), 1e-9) {
		t.Fatalf("std = %v, want %v", c.Numeric.Std, sampleStd(vals))
	}
}

func TestMixedColumnIsCategorical(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"n/a"}, {"2"}, {"  "}}
	s := ClassifyAndSummarize([]string{"v"}, rows)
	c, _ := s.Lookup("v")
	if c.Kind != KindCategorical {
		t.Fatalf("kind = %v", c.Kind)
	}
	want := []ValueCount{{"2", 2}, {"1", 1}, {"n/a", 1}}
	if c.Categorical.Unique != 3 || !reflect.DeepEqual(c.Categorical.Top, want) {
		t.Fatalf("stats = %#v", c.Categorical)
	}
}

func TestCategoricalCountsRawValues(t *testing.T) {
	rows := [][]string{{"a"}, {" a"}, {"a"}, {"b "}}
	s := ClassifyAndSummarize([]string{"v"}, rows)
	c, _ := s.Lookup("v")
	want := []ValueCount{{"a", 2}, {" a", 1}, {"b ", 1}}
	if c.Categorical.Unique != 3 || !reflect.DeepEqual(c.Categorical.Top, want) {
		t.Fatalf("stats = %#v", c.Categorical)
	}
}

func TestTopFiveTiesAndOrdering(t *testing.T) {
	vals := []string{"g", "f", "e", "d", "c", "b", "a", "a", "b", "c", "z", "z", "z"}
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{v}
	}
	s := ClassifyAndSummarize([]string{"v"}, rows)
	c, _ := s.Lookup("v")
	want := []ValueCount{{"z", 3}, {"c", 2}, {"b", 2}, {"a", 2}, {"g", 1}}
	if !reflect.DeepEqual(c.Categorical.Top, want) {
		t.Fatalf("top = %#v, want %#v", c.Categorical.Top, want)
	}
	if c.Categorical.Unique != 8 {
		t.Fatalf("unique = %d", c.Categorical.Unique)
	}
	total := 0
	for i, vc := range c.Categorical.Top {
		total += vc.Count
		if i > 0 && vc.Count > c.Categorical.Top[i-1].Count {
			t.Fatalf("frequencies increase at %d: %#v", i, c.Categorical.Top)
		}
	}
	if total > len(vals) {
		t.Fatalf("top frequencies %d exceed non-empty cells %d", total, len(vals))
	}
}

func TestEmptyColumnSkippedAndShortRows(t *testing.T) {
	header := []string{"a", "blank", "tail"}
	rows := [][]string{{"1", " ", "x"}, {"2"}, {"3", ""}}
	s := ClassifyAndSummarize(header, rows)
	if _, ok := s.Lookup("blank"); ok {
		t.Fatalf("blank column should be skipped")
	}
	tail, ok := s.Lookup("tail")
	if !ok || tail.Categorical.Unique != 1 {
		t.Fatalf("tail = %#v", tail)
	}
	if len(s.Columns) != 2 || s.Columns[0].Name != "a" || s.Columns[1].Name != "tail" {
		t.Fatalf("columns out of header order: %#v", s.Columns)
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10", 10, true},
		{" 1,234.5 ", 1234.5, true},
		{"-0.5", -0.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"0x10", 0, false},
		{"12%", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseNumeric(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestGroupAndSummarizeExample(t *testing.T) {
	g := GroupAndSummarize(exampleHeader, exampleRows, []string{"region"}, 5)
	if g.Skipped() || g.Truncated || g.Total != 2 || len(g.Groups) != 2 {
		t.Fatalf("grouping = %#v", g)
	}
	if !reflect.DeepEqual(g.Groups[0].Key, GroupKey{"east"}) || g.Groups[0].Rows != 2 {
		t.Fatalf("first group = %#v", g.Groups[0])
	}
	if !reflect.DeepEqual(g.Groups[1].Key, GroupKey{"west"}) || g.Groups[1].Rows != 1 {
		t.Fatalf("second group = %#v", g.Groups[1])
	}
	east, _ := g.Groups[0].Summary.Lookup("amount")
	if east.Numeric.Mean != 15 {
		t.Fatalf("east amount = %#v", east)
	}
	if _, ok := g.Groups[1].Summary.Lookup("amount"); ok {
		t.Fatalf("west has no amount values; column should be skipped")
	}
	if g.Label(g.Groups[0].Key) != "{region: east}" {
		t.Fatalf("label = %q", g.Label(g.Groups[0].Key))
	}
}

func TestGroupLimitAndTruncation(t *testing.T) {
	header := []string{"page_id", "ad_id", "likes"}
	var rows [][]string
	for _, p := range []string{"p3", "p1", "p2", "p1", "p4", "p5", "p6", "p7"} {
		rows = append(rows, []string{p, "a", "1"})
	}
	g := GroupAndSummarize(header, rows, []string{"page_id"}, 5)
	if g.Total != 7 || len(g.Groups) != 5 || !g.Truncated {
		t.Fatalf("total=%d groups=%d truncated=%v", g.Total, len(g.Groups), g.Truncated)
	}
	order := []string{"p3", "p1", "p2", "p4", "p5"}
	for i, want := range order {
		if g.Groups[i].Key[0] != want {
			t.Fatalf("group %d = %v, want %s", i, g.Groups[i].Key, want)
		}
	}
	if g.Groups[1].Rows != 2 {
		t.Fatalf("p1 rows = %d", g.Groups[1].Rows)
	}

	all := GroupAndSummarize(header, rows, []string{"page_id"}, 0)
	if len(all.Groups) != 7 || all.Truncated {
		t.Fatalf("unlimited grouping = %d groups, truncated=%v", len(all.Groups), all.Truncated)
	}

	exact := GroupAndSummarize(header, rows[:5], []string{"page_id"}, 4)
	if len(exact.Groups) != 4 || exact.Truncated {
		t.Fatalf("k == limit should not truncate: %#v", exact)
	}
}

func TestGroupByTuple(t *testing.T) {
	header := []string{"page_id", "ad_id", "spend"}
	rows := [][]string{
		{"1", "a", "5"},
		{"1", "b", "6"},
		{"1", "a", "7"},
		{"2", "a", "8"},
	}
	g := GroupAndSummarize(header, rows, []string{"page_id", "ad_id"}, 5)
	if len(g.Groups) != 3 {
		t.Fatalf("groups = %d", len(g.Groups))
	}
	if !reflect.DeepEqual(g.Groups[0].Key, GroupKey{"1", "a"}) || g.Groups[0].Rows != 2 {
		t.Fatalf("first = %#v", g.Groups[0])
	}
	if got := g.Label(g.Groups[2].Key); got != "{page_id: 2, ad_id: a}" {
		t.Fatalf("label = %q", got)
	}
}

func TestGroupKeysDoNotCollide(t *testing.T) {
	header := []string{"a", "b"}
	rows := [][]string{{"x:1", "y"}, {"x", "1:y"}}
	g := GroupAndSummarize(header, rows, []string{"a", "b"}, 0)
	if len(g.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(g.Groups))
	}
}

func TestGroupMissingColumn(t *testing.T) {
	g := GroupAndSummarize(exampleHeader, exampleRows, []string{"nonexistent"}, 5)
	if !g.Skipped() || len(g.Groups) != 0 || !reflect.DeepEqual(g.Missing, []string{"nonexistent"}) {
		t.Fatalf("grouping = %#v", g)
	}
	partial := GroupAndSummarize(exampleHeader, exampleRows, []string{"region", "ad_id"}, 5)
	if !partial.Skipped() || len(partial.Groups) != 0 {
		t.Fatalf("partial grouping should be empty: %#v", partial)
	}
}

func TestSummariesAreIdempotent(t *testing.T) {
	tbl := dataset.NewTable(exampleHeader, exampleRows)
	tbl.Name, tbl.Path = "example.csv", "data/example.csv"
	specs := []GroupSpec{{Columns: []string{"region"}, Limit: 5}, {Columns: []string{"nonexistent"}, Limit: 5}}
	a, err := Analyze(tbl, NativeEngine{}, specs)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := Analyze(tbl, nil, specs)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Text() != b.Text() || a.Markdown() != b.Markdown() {
		t.Fatalf("reports differ between runs")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("report structs differ between runs")
	}
}

func TestAnalyzeNotesTruncatedTable(t *testing.T) {
	tbl := dataset.NewTable(exampleHeader, exampleRows[:2])
	tbl.TotalRows = 3
	rep, err := Analyze(tbl, NativeEngine{}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rep.Notes) != 1 || rep.Notes[0] != "processed only 2/3 rows due to MaxRows" {
		t.Fatalf("notes = %#v", rep.Notes)
	}
}

func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
