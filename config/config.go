package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Dreamvillians/tradeville-journal/metrics"
)

const (
	SourceSQLite  = "sqlite"
	SourceBackend = "backend"
)

// Config is the journal's complete configuration. Every field can be
// overridden from the environment with the TJ_ variable named in its tag.
type Config struct {
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Backend BackendConfig `json:"backend" yaml:"backend"`
	Report  ReportConfig  `json:"report" yaml:"report"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// JournalConfig selects where trades are read from.
type JournalConfig struct {
	Source string `json:"source" yaml:"source" env:"TJ_SOURCE"` // "sqlite" or "backend"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" env:"TJ_DB_PATH"`
}

// BackendConfig points at the managed backend's REST endpoint.
type BackendConfig struct {
	URL               string  `json:"url,omitempty" yaml:"url,omitempty" env:"TJ_BACKEND_URL"`
	APIKey            string  `json:"api_key,omitempty" yaml:"api_key,omitempty" env:"TJ_BACKEND_API_KEY"`
	Table             string  `json:"table,omitempty" yaml:"table,omitempty" env:"TJ_BACKEND_TABLE"`
	PageSize          int     `json:"page_size,omitempty" yaml:"page_size,omitempty" env:"TJ_BACKEND_PAGE_SIZE"`
	Timeout           string  `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TJ_BACKEND_TIMEOUT"` // e.g. "10s"
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" env:"TJ_BACKEND_RPS"`
}

// ParseTimeout converts the timeout string to a time.Duration.
func (b BackendConfig) ParseTimeout() (time.Duration, error) {
	if b.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(b.Timeout)
}

// ReportConfig holds the calendar and display defaults for statistics.
type ReportConfig struct {
	Period    string `json:"period" yaml:"period" env:"TJ_PERIOD"`
	WeekStart string `json:"week_start" yaml:"week_start" env:"TJ_WEEK_START"` // weekday name
	Timezone  string `json:"timezone" yaml:"timezone" env:"TJ_TIMEZONE"`       // IANA name or "Local"
	TopN      int    `json:"top_n" yaml:"top_n" env:"TJ_TOP_N"`
}

// Location loads the configured zone; empty means the machine's local zone.
func (r ReportConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

// Weekday parses WeekStart; empty means Sunday.
func (r ReportConfig) Weekday() (time.Weekday, error) {
	if r.WeekStart == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(r.WeekStart, d.String()) || strings.EqualFold(r.WeekStart, d.String()[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", r.WeekStart)
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level" env:"TJ_LOG_LEVEL"`
	Encoding    string `json:"encoding" yaml:"encoding" env:"TJ_LOG_ENCODING"` // "json" or "console"
	Development bool   `json:"development" yaml:"development" env:"TJ_LOG_DEVELOPMENT"`
}

// LoadFromFile reads a YAML or JSON file over the defaults, applies
// environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return validated(cfg)
}

// Load is LoadFromFile when path is set, otherwise the defaults with
// environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	return validated(cfg)
}

// Read is Load without validation. Callers that layer further overrides,
// such as command-line flags, validate once they are applied.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Journal.Source {
	case SourceSQLite:
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite source")
		}
	case SourceBackend:
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url required for backend source")
		}
		if c.Backend.APIKey == "" {
			return fmt.Errorf("backend.api_key required for backend source")
		}
	default:
		return fmt.Errorf("journal.source must be 'sqlite' or 'backend'")
	}

	if c.Backend.PageSize < 0 {
		return fmt.Errorf("backend.page_size must not be negative")
	}
	if c.Backend.RequestsPerSecond < 0 {
		return fmt.Errorf("backend.requests_per_second must not be negative")
	}
	if d, err := c.Backend.ParseTimeout(); err != nil {
		return fmt.Errorf("backend.timeout: %w", err)
	} else if d < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}

	if _, err := metrics.ParsePeriod(c.Report.Period); err != nil {
		return fmt.Errorf("report.period: %w", err)
	}
	if _, err := c.Report.Weekday(); err != nil {
		return fmt.Errorf("report.week_start: %w", err)
	}
	if _, err := c.Report.Location(); err != nil {
		return fmt.Errorf("report.timezone: %w", err)
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative")
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}
	return nil
}

func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Source: SourceSQLite,
			DBPath: "./journal.db",
		},
		Backend: BackendConfig{
			Table:             "trades",
			PageSize:          500,
			Timeout:           "15s",
			RequestsPerSecond: 5,
		},
		Report: ReportConfig{
			Period:    "all",
			WeekStart: "sunday",
			TopN:      5,
		},
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
	}
}
