package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.DataSource.Symbols) == 0 {
		t.Error("expected default symbols")
	}
	if cfg.Metrics.Window != 20 {
		t.Errorf("expected default window 20, got %d", cfg.Metrics.Window)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
data_source:
  symbols: [AAPL, MSFT]
  start_date: "2020-06-01"
metrics:
  window: 10
export:
  format: json
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYMBOLS", "NVDA, TSLA")
	t.Setenv("METRICS_WINDOW", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.DataSource.Symbols; len(got) != 2 || got[0] != "NVDA" || got[1] != "TSLA" {
		t.Errorf("env override not applied: %v", got)
	}
	if cfg.Metrics.Window != 5 {
		t.Errorf("expected window 5, got %d", cfg.Metrics.Window)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("expected format json, got %s", cfg.Export.Format)
	}
	if cfg.StartDate().Year() != 2020 {
		t.Errorf("unexpected start date: %v", cfg.StartDate())
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.DataSource.Symbols = nil }},
		{"bad start date", func(c *Config) { c.DataSource.Start = "01/02/2020" }},
		{"zero window", func(c *Config) { c.Metrics.Window = 0 }},
		{"bad format", func(c *Config) { c.Export.Format = "xlsx" }},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("%s: load: %v", tt.name, err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
