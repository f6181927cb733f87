package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Dataset names one input file. Charts address datasets by Name.
type Dataset struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// GroupSet is one grouped summary: the key columns and how many groups to print.
type GroupSet struct {
	Columns []string `mapstructure:"columns" yaml:"columns"`
	Limit   int      `mapstructure:"limit" yaml:"limit"`
}

// Global configuration structure.
type Global struct {
	Datasets  []Dataset  `mapstructure:"datasets" yaml:"datasets"`
	GroupSets []GroupSet `mapstructure:"group_sets" yaml:"group_sets"`
	MaxRows   int        `mapstructure:"max_rows" yaml:"max_rows"`
	Engine    string     `mapstructure:"engine" yaml:"engine"`
	Format    string     `mapstructure:"format" yaml:"format"`
	ChartDir  string     `mapstructure:"chart_dir" yaml:"chart_dir"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	SeqURL   string `mapstructure:"seq_url" yaml:"seq_url"`
}

// DefaultDatasets are the period_03 exports the tool was built around.
func DefaultDatasets() []Dataset {
	return []Dataset{
		{Name: "fb_posts", Path: "period_03/2024_fb_posts_president_scored_anon.csv"},
		{Name: "fb_ads", Path: "period_03/2024_fb_ads_president_scored_anon.csv"},
		{Name: "tw_posts", Path: "period_03/2024_tw_posts_president_scored_anon.csv"},
	}
}

// DefaultGroupSets groups by page and by (page, ad), five groups each.
func DefaultGroupSets() []GroupSet {
	return []GroupSet{
		{Columns: []string{"page_id"}, Limit: 5},
		{Columns: []string{"page_id", "ad_id"}, Limit: 5},
	}
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Global {
	return &Global{
		Datasets:  DefaultDatasets(),
		GroupSets: DefaultGroupSets(),
		Engine:    "native",
		Format:    "text",
		ChartDir:  ".",
		LogLevel:  "info",
	}
}

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".socialstats"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.socialstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SOCIALSTATS")
	v.AutomaticEnv()

	v.SetDefault("max_rows", 0)
	v.SetDefault("engine", "native")
	v.SetDefault("format", "text")
	v.SetDefault("chart_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("seq_url", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config that is missing or broken is an error; the default location is optional
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Datasets) == 0 {
		c.Datasets = DefaultDatasets()
	}
	if len(c.GroupSets) == 0 {
		c.GroupSets = DefaultGroupSets()
	}
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	return &c, nil
}

// DatasetByName returns the configured dataset with the given name.
func (c *Global) DatasetByName(name string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Dataset{}, false
}
