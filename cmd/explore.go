package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
	"github.com/KaramelBytes/socialstats-cli/internal/explore"
	"github.com/spf13/cobra"
)

var exSheet string

var exploreCmd = &cobra.Command{
	Use:   "explore [files or dataset names...]",
	Short: "Show the structure, sample rows and likely column types of each dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Election Social Media Data Explorer")
		fmt.Fprintln(out, "===================================")

		var totals explore.Totals
		for _, ds := range targets(args) {
			p, err := explore.Structure(ds.Path, dataset.Options{Sheet: exSheet})
			if err != nil {
				if errors.Is(err, dataset.ErrNotFound) {
					fmt.Fprintf(out, "File not found: %s\n", ds.Path)
					logger.Warn("dataset missing", "dataset", ds.Name, "path", ds.Path)
				} else {
					fmt.Fprintf(out, "Error reading file: %v\n", err)
					logger.Error("explore failed", "dataset", ds.Name, "error", err)
				}
				totals.Add(nil)
				continue
			}
			p.Write(out)
			totals.Add(p)
		}
		totals.Write(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}
