package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/socialstats-cli/internal/config"
	"github.com/KaramelBytes/socialstats-cli/internal/summary"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set socialstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintln(out, "datasets:")
		for _, d := range cfg.Datasets {
			fmt.Fprintf(out, "  %s: %s\n", d.Name, d.Path)
		}
		fmt.Fprintln(out, "group_sets:")
		for _, g := range cfg.GroupSets {
			fmt.Fprintf(out, "  [%s] limit %d\n", strings.Join(g.Columns, ", "), g.Limit)
		}
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "engine: %s\n", cfg.Engine)
		fmt.Fprintf(out, "format: %s\n", cfg.Format)
		fmt.Fprintf(out, "chart_dir: %s\n", cfg.ChartDir)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.SeqURL != "" {
			fmt.Fprintf(out, "seq_url: %s\n", cfg.SeqURL)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk. Keys: max_rows, engine, format,
chart_dir, log_level, seq_url, dataset.<name> (path of a named dataset).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch {
		case key == "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case key == "engine":
			if _, err := engineByName(val); err != nil {
				return err
			}
			cfg.Engine = strings.ToLower(val)
		case key == "format":
			f, err := summary.NormalizeFormat(val)
			if err != nil {
				return fmt.Errorf("invalid format: %s (use text or markdown)", val)
			}
			cfg.Format = f
		case key == "chart_dir":
			cfg.ChartDir = val
		case key == "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case key == "seq_url":
			cfg.SeqURL = val
		case strings.HasPrefix(key, "dataset."):
			name := strings.TrimPrefix(key, "dataset.")
			if name == "" {
				return fmt.Errorf("missing dataset name in key: %s", key)
			}
			setDataset(cfg, name, val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setDataset(c *cfgpkg.Global, name, path string) {
	for i, d := range c.Datasets {
		if strings.EqualFold(d.Name, name) {
			c.Datasets[i].Path = path
			return
		}
	}
	c.Datasets = append(c.Datasets, cfgpkg.Dataset{Name: name, Path: path})
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
