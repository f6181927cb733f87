package frame

import (
	"math"
	"reflect"
	"testing"

	"github.com/KaramelBytes/socialstats-cli/internal/summary"
)

var (
	header = []string{"id", "amount", "region"}
	rows   = [][]string{
		{"1", "10", "east"},
		{"2", "20", "east"},
		{"3", "", "west"},
	}
)

func TestSummarizeAgreesWithNative(t *testing.T) {
	got, err := Engine{}.Summarize(header, rows)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := summary.ClassifyAndSummarize(header, rows)
	for _, name := range []string{"id", "amount"} {
		g, ok := got.Lookup(name)
		if !ok || g.Kind != summary.KindNumeric {
			t.Fatalf("%s = %#v", name, g)
		}
		w, _ := want.Lookup(name)
		if g.Numeric.Count != w.Numeric.Count || g.Numeric.Min != w.Numeric.Min || g.Numeric.Max != w.Numeric.Max {
			t.Fatalf("%s: got %#v want %#v", name, g.Numeric, w.Numeric)
		}
		if !almostEqual(g.Numeric.Mean, w.Numeric.Mean) || !almostEqual(g.Numeric.Std, w.Numeric.Std) {
			t.Fatalf("%s: got %#v want %#v", name, g.Numeric, w.Numeric)
		}
	}
	region, _ := got.Lookup("region")
	wantTop := []summary.ValueCount{{Value: "east", Count: 2}, {Value: "west", Count: 1}}
	if region.Kind != summary.KindCategorical || region.Categorical.Unique != 2 || !reflect.DeepEqual(region.Categorical.Top, wantTop) {
		t.Fatalf("region = %#v", region)
	}
}

func TestGroupSortsKeys(t *testing.T) {
	h := []string{"page_id", "likes"}
	r := [][]string{{"10", "1"}, {"9", "2"}, {"10", "3"}, {"", "4"}, {"2", "5"}}
	g, err := Engine{}.Group(h, r, []string{"page_id"}, 2)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if g.Total != 3 || !g.Truncated || len(g.Groups) != 2 {
		t.Fatalf("grouping = %#v", g)
	}
	if g.Groups[0].Key[0] != "2" || g.Groups[1].Key[0] != "9" {
		t.Fatalf("keys = %v, %v", g.Groups[0].Key, g.Groups[1].Key)
	}
	likes, ok := g.Groups[1].Summary.Lookup("likes")
	if !ok || likes.Numeric.Count != 1 || likes.Numeric.Mean != 2 {
		t.Fatalf("likes in group 9 = %#v", likes)
	}
}

func TestGroupMissingColumn(t *testing.T) {
	g, err := Engine{}.Group(header, rows, []string{"page_id"}, 5)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if !g.Skipped() || len(g.Groups) != 0 {
		t.Fatalf("grouping = %#v", g)
	}
}

func TestGroupEmptyInput(t *testing.T) {
	g, err := Engine{}.Group([]string{"page_id", "v"}, nil, []string{"page_id"}, 5)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if g.Total != 0 || len(g.Groups) != 0 || len(g.Missing) != 0 {
		t.Fatalf("grouping = %#v", g)
	}
}

func TestNaNTextCountedAsValue(t *testing.T) {
	h := []string{"region"}
	r := [][]string{{"NaN"}, {"NaN"}, {"east"}}
	got, err := Engine{}.Summarize(h, r)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := summary.ClassifyAndSummarize(h, r)
	g, _ := got.Lookup("region")
	w, _ := want.Lookup("region")
	if !reflect.DeepEqual(g.Categorical, w.Categorical) {
		t.Fatalf("got %#v want %#v", g.Categorical, w.Categorical)
	}
	if g.Categorical.Unique != 2 || g.Categorical.Top[0] != (summary.ValueCount{Value: "NaN", Count: 2}) {
		t.Fatalf("region = %#v", g.Categorical)
	}
}

func TestDuplicateHeaderNamesKept(t *testing.T) {
	h := []string{"a", "a", ""}
	r := [][]string{{"1", "x", "p"}, {"3", "y", "p"}}
	got, err := Engine{}.Summarize(h, r)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(got.Columns) != 3 {
		t.Fatalf("columns = %#v", got.Columns)
	}
	for i, name := range h {
		if got.Columns[i].Name != name {
			t.Fatalf("column %d named %q, want %q", i, got.Columns[i].Name, name)
		}
	}
	if got.Columns[0].Kind != summary.KindNumeric || got.Columns[0].Numeric.Mean != 2 {
		t.Fatalf("first a = %#v", got.Columns[0])
	}
	if got.Columns[1].Kind != summary.KindCategorical || got.Columns[1].Categorical.Unique != 2 {
		t.Fatalf("second a = %#v", got.Columns[1])
	}

	g, err := Engine{}.Group(h, r, []string{""}, 0)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if g.Total != 1 || g.Groups[0].Summary.Columns[1].Name != "a" {
		t.Fatalf("grouping = %#v", g)
	}
}

func TestLessKey(t *testing.T) {
	cases := []struct {
		a, b summary.GroupKey
		want bool
	}{
		{summary.GroupKey{"2"}, summary.GroupKey{"10"}, true},
		{summary.GroupKey{"10"}, summary.GroupKey{"2"}, false},
		{summary.GroupKey{"5"}, summary.GroupKey{"abc"}, true},
		{summary.GroupKey{"a"}, summary.GroupKey{"b"}, true},
		{summary.GroupKey{"1", "b"}, summary.GroupKey{"1", "a"}, false},
		{summary.GroupKey{"x"}, summary.GroupKey{"x"}, false},
	}
	for _, c := range cases {
		if got := lessKey(c.a, c.b); got != c.want {
			t.Errorf("lessKey(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }
