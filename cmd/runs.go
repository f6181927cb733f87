package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/socialstats-cli/internal/run"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect summarize runs written with --output-dir",
}

var runsShowCmd = &cobra.Command{
	Use:   "show <output-dir>",
	Short: "Show the run.json manifest of an output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := run.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run: %s\n", m.ID)
		fmt.Fprintf(out, "dir: %s\n", m.OutDir())
		fmt.Fprintf(out, "engine: %s  format: %s\n", m.Engine, m.Format)
		fmt.Fprintf(out, "took: %s\n", m.FinishedAt.Sub(m.StartedAt).Round(time.Millisecond))
		for _, e := range m.Datasets {
			switch e.Status {
			case run.StatusOK:
				fmt.Fprintf(out, "  ✓ %s rows=%d cols=%d groups=%d", e.Name, e.Rows, e.Columns, e.Groups)
				if e.Report != "" {
					fmt.Fprintf(out, " report=%s", e.Report)
				}
				fmt.Fprintln(out)
			case run.StatusMissing:
				fmt.Fprintf(out, "  ⚠ %s missing (%s)\n", e.Name, e.Path)
			default:
				fmt.Fprintf(out, "  ✗ %s %s: %s\n", e.Name, e.Status, e.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
}
