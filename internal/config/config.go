// Package config loads parkrun-stats settings via Viper.
//
// Precedence, lowest first: built-in defaults, an optional YAML file, a .env
// file in the working directory, and PARKRUN_* environment variables
// (PARKRUN_FETCH_TIMEOUT overrides fetch.timeout). Command-line flags are
// applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/parkrun-stats/internal/logger"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PARKRUN"

// Config captures every setting of one run.
type Config struct {
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Report  ReportConfig  `mapstructure:"report"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FetchConfig controls the headless browser.
type FetchConfig struct {
	Mode         string        `mapstructure:"mode"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	WaitSelector string        `mapstructure:"wait_selector"`
	ChromePath   string        `mapstructure:"chrome_path"`
	Headless     bool          `mapstructure:"headless"`
}

// StatsConfig tunes the aggregation.
type StatsConfig struct {
	Weekday    string `mapstructure:"weekday"`
	TopWinners int    `mapstructure:"top_winners"`
}

// ReportConfig tunes the text report.
type ReportConfig struct {
	DisplayWinners int `mapstructure:"display_winners"`
	LatestEvents   int `mapstructure:"latest_events"`
}

// ExportConfig sets where exports go when no explicit path is given.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig selects the log format and threshold.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Fetch modes.
const (
	ModeBrowser = "browser"
	ModeHTTP    = "http"
)

// DefaultUserAgent is a desktop Chrome string; the site turns away obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Load builds a Config from defaults, path (if not empty), .env and the environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.mode", ModeBrowser)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.wait_selector", "#primary")
	v.SetDefault("fetch.chrome_path", "")
	v.SetDefault("fetch.headless", true)
	v.SetDefault("stats.weekday", "saturday")
	v.SetDefault("stats.top_winners", 10)
	v.SetDefault("report.display_winners", 3)
	v.SetDefault("report.latest_events", 5)
	v.SetDefault("export.dir", "")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
}

// Validate checks the values Load cannot type-check.
func (c Config) Validate() error {
	if c.Fetch.Mode != ModeBrowser && c.Fetch.Mode != ModeHTTP {
		return fmt.Errorf("fetch.mode must be %q or %q, got %q", ModeBrowser, ModeHTTP, c.Fetch.Mode)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if _, err := ParseWeekday(c.Stats.Weekday); err != nil {
		return err
	}
	if c.Stats.TopWinners <= 0 {
		return fmt.Errorf("stats.top_winners must be positive")
	}
	if c.Report.DisplayWinners < 0 || c.Report.LatestEvents < 0 {
		return fmt.Errorf("report counts must not be negative")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// Weekday returns the configured run day.
func (c Config) Weekday() time.Weekday {
	d, _ := ParseWeekday(c.Stats.Weekday)
	return d
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
