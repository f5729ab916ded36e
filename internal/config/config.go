package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateFormat = "2006-01-02"

// Config holds all application configuration. Nothing is read from globals at
// run time; every component receives what it needs at construction.
type Config struct {
	DataSource struct {
		BaseURL string   `yaml:"base_url"` // empty → Yahoo Finance
		APIKey  string   `yaml:"api_key"`
		Symbols []string `yaml:"symbols"`
		Start   string   `yaml:"start_date"` // YYYY-MM-DD
	} `yaml:"data_source"`
	Metrics struct {
		Window int `yaml:"window"`
	} `yaml:"metrics"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"` // csv | json | parquet
	} `yaml:"export"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"` // empty → run once and exit
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.DataSource.Start = v
	}
	if v := os.Getenv("METRICS_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Window = n
		}
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("EXPORT_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"AAPL", "MSFT", "AMZN", "GOOGL", "META"}
	}
	if cfg.DataSource.Start == "" {
		cfg.DataSource.Start = "2018-01-01"
	}
	if cfg.Metrics.Window == 0 {
		cfg.Metrics.Window = 20
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/price_warehouse.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are coherent.
func (c *Config) Validate() error {
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if _, err := time.Parse(dateFormat, c.DataSource.Start); err != nil {
		return fmt.Errorf("data_source.start_date: %w", err)
	}
	if c.Metrics.Window < 1 {
		return fmt.Errorf("metrics.window must be >= 1")
	}
	switch strings.ToLower(c.Export.Format) {
	case "csv", "json", "parquet":
	default:
		return fmt.Errorf("export.format must be csv, json or parquet, got %q", c.Export.Format)
	}
	return nil
}

// StartDate returns the parsed start date (midnight UTC).
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse(dateFormat, c.DataSource.Start)
	return t
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
