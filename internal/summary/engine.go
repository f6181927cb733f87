package summary

import (
	"fmt"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
)

// Engine computes overall and grouped summaries for a table.
type Engine interface {
	Name() string
	Summarize(header []string, rows [][]string) (*Summary, error)
	Group(header []string, rows [][]string, columns []string, limit int) (*Grouping, error)
}

// NativeEngine is the hand-rolled implementation in this package.
type NativeEngine struct{}

func (NativeEngine) Name() string { return "native" }

func (NativeEngine) Summarize(header []string, rows [][]string) (*Summary, error) {
	return ClassifyAndSummarize(header, rows), nil
}

func (NativeEngine) Group(header []string, rows [][]string, columns []string, limit int) (*Grouping, error) {
	return GroupAndSummarize(header, rows, columns, limit), nil
}

// GroupSpec requests one grouped summary.
type GroupSpec struct {
	Columns []string
	Limit   int
}

// Report is the full summary of one dataset.
type Report struct {
	Name      string
	Path      string
	Engine    string
	Columns   int
	Rows      int
	TotalRows int
	Overall   *Summary
	Groupings []*Grouping
	Notes     []string
}

// Analyze summarizes t overall and once per spec.
func Analyze(t *dataset.Table, eng Engine, specs []GroupSpec) (*Report, error) {
	if eng == nil {
		eng = NativeEngine{}
	}
	rep := &Report{
		Name:      t.Name,
		Path:      t.Path,
		Engine:    eng.Name(),
		Columns:   len(t.Header),
		Rows:      len(t.Rows),
		TotalRows: t.TotalRows,
	}
	overall, err := eng.Summarize(t.Header, t.Rows)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", t.Name, err)
	}
	overall.Title = "Overall Dataset"
	rep.Overall = overall
	for _, spec := range specs {
		g, err := eng.Group(t.Header, t.Rows, spec.Columns, spec.Limit)
		if err != nil {
			return nil, fmt.Errorf("group %s by %v: %w", t.Name, spec.Columns, err)
		}
		rep.Groupings = append(rep.Groupings, g)
	}
	if t.Truncated() {
		rep.Notes = append(rep.Notes, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Rows, rep.TotalRows))
	}
	return rep, nil
}
