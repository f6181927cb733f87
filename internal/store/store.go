// Package store exports summaries of a run into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/socialstats-cli/internal/summary"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	engine     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS column_stats (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	dataset      TEXT NOT NULL,
	group_by     TEXT NOT NULL,
	group_key    TEXT NOT NULL,
	rows         INTEGER NOT NULL,
	column_name  TEXT NOT NULL,
	kind         TEXT NOT NULL,
	count        INTEGER,
	mean         REAL,
	min          REAL,
	max          REAL,
	std          REAL,
	unique_count INTEGER
);
CREATE TABLE IF NOT EXISTS top_values (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	dataset     TEXT NOT NULL,
	group_by    TEXT NOT NULL,
	group_key   TEXT NOT NULL,
	column_name TEXT NOT NULL,
	rank        INTEGER NOT NULL,
	value       TEXT NOT NULL,
	count       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_column_stats_run ON column_stats(run_id, dataset);
CREATE INDEX IF NOT EXISTS idx_top_values_run ON top_values(run_id, dataset);
`

// Run identifies one invocation of the summarizer.
type Run struct {
	ID        string
	StartedAt time.Time
	Engine    string
}

// Store is an open summary database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRun writes the run and every overall and grouped summary of reports in
// one transaction. Overall rows have an empty group_by and group_key.
func (s *Store) SaveRun(ctx context.Context, run Run, reports []*summary.Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (id, started_at, engine) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.Engine); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	statStmt, err := tx.PrepareContext(ctx, `INSERT INTO column_stats
		(run_id, dataset, group_by, group_key, rows, column_name, kind, count, mean, min, max, std, unique_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare column_stats: %w", err)
	}
	defer statStmt.Close()
	topStmt, err := tx.PrepareContext(ctx, `INSERT INTO top_values
		(run_id, dataset, group_by, group_key, column_name, rank, value, count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare top_values: %w", err)
	}
	defer topStmt.Close()

	w := writer{ctx: ctx, runID: run.ID, stats: statStmt, top: topStmt}
	for _, rep := range reports {
		if err = w.summary(rep.Name, "", "", rep.Overall); err != nil {
			return err
		}
		for _, g := range rep.Groupings {
			groupBy := strings.Join(g.Columns, ",")
			for _, grp := range g.Groups {
				if err = w.summary(rep.Name, groupBy, g.Label(grp.Key), grp.Summary); err != nil {
					return err
				}
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type writer struct {
	ctx   context.Context
	runID string
	stats *sql.Stmt
	top   *sql.Stmt
}

func (w writer) summary(ds, groupBy, groupKey string, s *summary.Summary) error {
	if s == nil {
		return nil
	}
	for _, c := range s.Columns {
		var count, uniq, mean, lo, hi, std any
		switch c.Kind {
		case summary.KindNumeric:
			n := c.Numeric
			count, mean, lo, hi, std = n.Count, n.Mean, n.Min, n.Max, n.Std
		case summary.KindCategorical:
			uniq = c.Categorical.Unique
		}
		if _, err := w.stats.ExecContext(w.ctx, w.runID, ds, groupBy, groupKey, s.Rows,
			c.Name, c.Kind.String(), count, mean, lo, hi, std, uniq); err != nil {
			return fmt.Errorf("insert stats %s/%s: %w", ds, c.Name, err)
		}
		for rank, vc := range c.Categorical.Top {
			if _, err := w.top.ExecContext(w.ctx, w.runID, ds, groupBy, groupKey, c.Name, rank+1, vc.Value, vc.Count); err != nil {
				return fmt.Errorf("insert top value %s/%s: %w", ds, c.Name, err)
			}
		}
	}
	return nil
}
