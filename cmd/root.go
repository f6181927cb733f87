package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/socialstats-cli/internal/config"
	"github.com/KaramelBytes/socialstats-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger     = slog.New(slog.NewTextHandler(io.Discard, nil))
	closeLogFn = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "socialstats",
	Short: "Descriptive statistics for the 2024 election social media datasets",
	Long: `socialstats summarizes the Facebook posts, Facebook ads and Twitter posts
exports: per-column statistics overall and per page/ad group, a structural
profile of each file, and a set of dashboard charts.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	closeLogFn()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.socialstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	closeLogFn()
	logger, closeLogFn = logging.Setup(os.Stderr, logging.Options{
		Level:  level,
		SeqURL: cfg.SeqURL,
	})
	logger.Debug("config loaded", "file", cfgFile, "datasets", len(cfg.Datasets), "engine", cfg.Engine)
}

// targets returns the datasets named on the command line, or the configured
// ones when no paths are given.
func targets(args []string) []cfgpkg.Dataset {
	if len(args) == 0 {
		return cfg.Datasets
	}
	out := make([]cfgpkg.Dataset, len(args))
	for i, a := range args {
		if d, ok := cfg.DatasetByName(a); ok {
			out[i] = d
			continue
		}
		out[i] = cfgpkg.Dataset{Name: a, Path: a}
	}
	return out
}
