package run_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
	"github.com/KaramelBytes/socialstats-cli/internal/run"
	"github.com/KaramelBytes/socialstats-cli/internal/summary"
)

func report(t *testing.T, name string) *summary.Report {
	t.Helper()
	tbl := dataset.NewTable([]string{"page_id", "likes"}, [][]string{{"1", "5"}, {"2", "7"}, {"1", "9"}})
	tbl.Name = name
	rep, err := summary.Analyze(tbl, nil, []summary.GroupSpec{{Columns: []string{"page_id"}, Limit: 5}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return rep
}

func TestManifestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	m := run.New(dir, "native", "markdown")
	if _, err := uuid.Parse(m.ID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", m.ID, err)
	}

	e1, err := m.AddReport("data/posts.csv.gz", report(t, "posts.csv.gz"), "first")
	if err != nil {
		t.Fatalf("AddReport: %v", err)
	}
	e2, err := m.AddReport("other/posts.csv", report(t, "posts.csv"), "second")
	if err != nil {
		t.Fatalf("AddReport: %v", err)
	}
	m.AddFailure("tw_posts", "missing.csv", run.StatusMissing, errors.New("file not found"))
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if e1.Report != "posts.summary.md" || e2.Report != "posts__2.summary.md" {
		t.Fatalf("reports = %q, %q", e1.Report, e2.Report)
	}
	b, err := os.ReadFile(filepath.Join(dir, e2.Report))
	if err != nil || string(b) != "second" {
		t.Fatalf("report content = %q, %v", b, err)
	}
	if e1.Rows != 3 || e1.Columns != 2 || e1.Groups != 2 {
		t.Fatalf("entry = %#v", e1)
	}

	loaded, err := run.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != m.ID || len(loaded.Datasets) != 3 || loaded.OutDir() != dir {
		t.Fatalf("loaded = %#v", loaded)
	}
	if d := loaded.Datasets[2]; d.Status != run.StatusMissing || d.Error != "file not found" {
		t.Fatalf("missing entry = %#v", d)
	}
	if loaded.FinishedAt.Before(loaded.StartedAt) {
		t.Fatalf("finished before started")
	}
}

func TestManifestWithoutOutDir(t *testing.T) {
	m := run.New("", "native", "text")
	e, err := m.AddReport("a.csv", report(t, "a.csv"), "x")
	if err != nil || e.Report != "" {
		t.Fatalf("entry = %#v, %v", e, err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := run.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReportBaseAndExt(t *testing.T) {
	cases := map[string]string{
		"period_03/2024_fb_posts.csv": "2024_fb_posts",
		"x.tsv.zst":                   "x",
		"book.xlsx":                   "book",
		"noext":                       "noext",
	}
	for in, want := range cases {
		if got := run.ReportBase(in); got != want {
			t.Errorf("ReportBase(%q) = %q, want %q", in, got, want)
		}
	}
	if run.ReportExt("text") != ".txt" || run.ReportExt("Markdown") != ".md" {
		t.Fatalf("unexpected extensions")
	}
}
