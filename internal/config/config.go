// Package config handles configuration loading for comextrack.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration. Every
// value the pipeline touches (URL, filenames, folder names) lives
// here so tests can substitute paths and endpoints.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"  yaml:"source"`
	Ledger  LedgerConfig  `mapstructure:"ledger"  yaml:"ledger"`
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`
	Notices NoticesConfig `mapstructure:"notices" yaml:"notices"`
}

// SourceConfig holds the report download settings.
type SourceConfig struct {
	URL         string `mapstructure:"url"          yaml:"url"`
	DiscoverURL string `mapstructure:"discover_url" yaml:"discover_url"`
	TempFile    string `mapstructure:"temp_file"    yaml:"temp_file"`
	TimeoutSec  int    `mapstructure:"timeout_sec"  yaml:"timeout_sec"`
	InsecureTLS bool   `mapstructure:"insecure_tls" yaml:"insecure_tls"`
}

// Timeout returns the download timeout as a duration.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// LedgerConfig holds the master CSV location.
type LedgerConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ArchiveConfig holds the dated-archive folder location.
type ArchiveConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// NoticesConfig holds the clearing-notices feed settings.
type NoticesConfig struct {
	FeedURL string `mapstructure:"feed_url" yaml:"feed_url"`
	Keyword string `mapstructure:"keyword"  yaml:"keyword"`
	Limit   int    `mapstructure:"limit"    yaml:"limit"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.comextrack/config.yaml (home directory)
//  3. /etc/comextrack/config.yaml (system)
//
// Environment variables override config file values.
// Format: COMEXTRACK_<SECTION>_<KEY>, e.g., COMEXTRACK_LEDGER_PATH
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".comextrack"))
	v.AddConfigPath("/etc/comextrack")

	v.SetEnvPrefix("COMEXTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not existing is fine; defaults plus env vars fully
	// describe a default deployment.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("COMEXTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the pipeline has everything it needs.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("config: source.url must not be empty")
	}
	if c.Source.TempFile == "" {
		return fmt.Errorf("config: source.temp_file must not be empty")
	}
	if c.Source.TimeoutSec <= 0 {
		return fmt.Errorf("config: source.timeout_sec must be positive, got %d", c.Source.TimeoutSec)
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("config: ledger.path must not be empty")
	}
	if c.Archive.Dir == "" {
		return fmt.Errorf("config: archive.dir must not be empty")
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Source defaults: the fixed delivery-reports location.
	v.SetDefault("source.url", "https://www.cmegroup.com/delivery_reports/Silver_stocks.xls")
	v.SetDefault("source.discover_url", "https://www.cmegroup.com/clearing/operations-and-deliveries/accepted-trade-types/delivery-reports.html")
	v.SetDefault("source.temp_file", "Silver_Stocks.TEMP.xls")
	v.SetDefault("source.timeout_sec", 30)
	v.SetDefault("source.insecure_tls", true)

	// Ledger defaults
	v.SetDefault("ledger.path", "comex_silver_master.csv")

	// Archive defaults
	v.SetDefault("archive.dir", "historic")

	// Notices defaults
	v.SetDefault("notices.feed_url", "https://www.cmegroup.com/rss/notices.xml")
	v.SetDefault("notices.keyword", "silver")
	v.SetDefault("notices.limit", 10)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
