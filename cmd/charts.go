package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/socialstats-cli/internal/charts"
	"github.com/KaramelBytes/socialstats-cli/internal/dataset"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var chOutDir string

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the engagement, advertising, topic and platform charts as PNG files",
	Long: `Render four dashboard charts from the configured fb_posts, fb_ads and
tw_posts datasets. Panels whose dataset or column is missing are drawn empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.ChartDir
		if cmd.Flags().Changed("out-dir") {
			dir = chOutDir
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Loading datasets...")

		load := func(name string) (*dataset.Table, error) {
			ds, ok := cfg.DatasetByName(name)
			if !ok {
				logger.Warn("dataset not configured", "dataset", name)
				return nil, nil
			}
			t, err := dataset.Load(ds.Path, dataset.Options{})
			if errors.Is(err, dataset.ErrNotFound) {
				fmt.Fprintf(out, "File not found: %s\n", ds.Path)
				logger.Warn("dataset missing", "dataset", name, "path", ds.Path)
				return nil, nil
			}
			return t, err
		}
		var src charts.Sources
		var err error
		if src.Posts, err = load(charts.FBPosts); err != nil {
			return err
		}
		if src.Ads, err = load(charts.FBAds); err != nil {
			return err
		}
		if src.Twitter, err = load(charts.TWPosts); err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded: %s FB posts, %s ads, %s tweets\n",
			humanize.Comma(int64(rowCount(src.Posts))), humanize.Comma(int64(rowCount(src.Ads))), humanize.Comma(int64(rowCount(src.Twitter))))

		d := charts.Build(src)
		for _, w := range d.Warnings {
			logger.Warn("chart input missing", "detail", w)
		}
		paths, err := charts.Render(dir, d)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "\nFiles created:")
		for _, p := range paths {
			fmt.Fprintf(out, "   - %s\n", p)
		}
		logger.Info("charts written", "dir", dir, "files", len(paths))
		return nil
	},
}

func rowCount(t *dataset.Table) int {
	if t == nil {
		return 0
	}
	return t.TotalRows
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVar(&chOutDir, "out-dir", ".", "directory for the PNG files (default from config chart_dir)")
}
