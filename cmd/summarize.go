package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
	"github.com/KaramelBytes/socialstats-cli/internal/frame"
	"github.com/KaramelBytes/socialstats-cli/internal/run"
	"github.com/KaramelBytes/socialstats-cli/internal/store"
	"github.com/KaramelBytes/socialstats-cli/internal/summary"
	"github.com/spf13/cobra"
)

var (
	smGroupBy   []string
	smLimit     int
	smEngine    string
	smFormat    string
	smMaxRows   int
	smOutputDir string
	smSQLite    string
	smSheet     string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [files or dataset names...]",
	Short: "Print overall and grouped column statistics for each dataset",
	Long: `Summarize every column of each dataset: numeric columns get count, mean,
min, max and sample std; other columns get their distinct count and five most
frequent values. The same statistics are then printed for the first groups of
rows sharing each --group-by key. Missing files are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engineName := cfg.Engine
		if cmd.Flags().Changed("engine") {
			engineName = smEngine
		}
		eng, err := engineByName(engineName)
		if err != nil {
			return err
		}
		format := cfg.Format
		if cmd.Flags().Changed("format") {
			format = smFormat
		}
		format, err = summary.NormalizeFormat(format)
		if err != nil {
			return err
		}
		maxRows := cfg.MaxRows
		if cmd.Flags().Changed("max-rows") {
			maxRows = smMaxRows
		}
		specs, err := groupSpecs(cmd.Flags().Changed("limit"))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m := run.New(smOutputDir, eng.Name(), format)
		var reports []*summary.Report
		for _, ds := range targets(args) {
			start := time.Now()
			t, err := dataset.Load(ds.Path, dataset.Options{MaxRows: maxRows, Sheet: smSheet})
			if err != nil {
				if errors.Is(err, dataset.ErrNotFound) {
					fmt.Fprintf(out, "File not found: %s\n", ds.Path)
					logger.Warn("dataset missing", "dataset", ds.Name, "path", ds.Path)
					m.AddFailure(ds.Name, ds.Path, run.StatusMissing, err)
					continue
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipping %s: %v\n", ds.Path, err)
				logger.Error("dataset load failed", "dataset", ds.Name, "path", ds.Path, "error", err)
				m.AddFailure(ds.Name, ds.Path, run.StatusFailed, err)
				continue
			}
			logger.Info("dataset loaded", "dataset", ds.Name, "rows", t.TotalRows, "columns", len(t.Header), "elapsed", time.Since(start))

			rep, err := summary.Analyze(t, eng, specs)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipping %s: %v\n", ds.Path, err)
				logger.Error("summarize failed", "dataset", ds.Name, "error", err)
				m.AddFailure(ds.Name, ds.Path, run.StatusFailed, err)
				continue
			}
			for _, g := range rep.Groupings {
				if g.Skipped() {
					logger.Debug("grouping skipped", "dataset", ds.Name, "columns", g.Columns, "missing", g.Missing)
				}
			}
			rendered, err := rep.Render(format)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			e, err := m.AddReport(ds.Path, rep, rendered)
			if err != nil {
				return err
			}
			if e.Report != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", filepath.Join(m.OutDir(), e.Report))
			}
			reports = append(reports, rep)
		}

		if m.OutDir() != "" {
			if err := m.Save(); err != nil {
				return fmt.Errorf("save manifest: %w", err)
			}
			logger.Info("manifest written", "run", m.ID, "dir", m.OutDir())
		}
		if smSQLite != "" {
			s, err := store.Open(cmd.Context(), smSQLite)
			if err != nil {
				return err
			}
			defer s.Close()
			r := store.Run{ID: m.ID, StartedAt: m.StartedAt, Engine: m.Engine}
			if err := s.SaveRun(cmd.Context(), r, reports); err != nil {
				return fmt.Errorf("export sqlite: %w", err)
			}
			logger.Info("sqlite export written", "run", m.ID, "path", smSQLite, "datasets", len(reports))
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported run %s to %s\n", m.ID, smSQLite)
		}
		return nil
	},
}

func engineByName(name string) (summary.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native":
		return summary.NativeEngine{}, nil
	case "dataframe", "gota":
		return frame.Engine{}, nil
	default:
		return nil, fmt.Errorf("unsupported engine: %s (use native|dataframe)", name)
	}
}

// groupSpecs turns --group-by values (each a comma-separated column list)
// into specs, falling back to the configured group sets. A changed --limit
// applies to every spec.
func groupSpecs(limitChanged bool) ([]summary.GroupSpec, error) {
	var specs []summary.GroupSpec
	if len(smGroupBy) > 0 {
		for _, g := range smGroupBy {
			var cols []string
			for _, c := range strings.Split(g, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cols = append(cols, c)
				}
			}
			if len(cols) == 0 {
				return nil, fmt.Errorf("empty --group-by value")
			}
			specs = append(specs, summary.GroupSpec{Columns: cols, Limit: smLimit})
		}
	} else {
		for _, gs := range cfg.GroupSets {
			specs = append(specs, summary.GroupSpec{Columns: gs.Columns, Limit: gs.Limit})
		}
	}
	if limitChanged {
		for i := range specs {
			specs[i].Limit = smLimit
		}
	}
	return specs, nil
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringArrayVar(&smGroupBy, "group-by", nil, "comma-separated key columns for one grouped summary (repeatable; default from config)")
	summarizeCmd.Flags().IntVar(&smLimit, "limit", 5, "number of groups to summarize per grouping (0 = all)")
	summarizeCmd.Flags().StringVar(&smEngine, "engine", "native", "summary engine: native|dataframe")
	summarizeCmd.Flags().StringVar(&smFormat, "format", "text", "report format: text|markdown")
	summarizeCmd.Flags().IntVar(&smMaxRows, "max-rows", 0, "maximum rows to load per dataset (0 = unlimited)")
	summarizeCmd.Flags().StringVarP(&smOutputDir, "output-dir", "o", "", "also write each report and a run.json manifest here")
	summarizeCmd.Flags().StringVar(&smSQLite, "sqlite", "", "export all summaries of the run to this SQLite database")
	summarizeCmd.Flags().StringVar(&smSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}
