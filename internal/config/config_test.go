package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/newthinker/crossover/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
backtest:
  short_window: 10
  long_window: 30

series:
  source: csv
  path: "prices/spy.csv"

storage:
  type: localfs
  path: "/tmp/crossover"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backtest.ShortWindow != 10 || cfg.Backtest.LongWindow != 30 {
		t.Errorf("expected 10/30 windows, got %d/%d", cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow)
	}

	if cfg.Series.Source != "csv" || cfg.Series.Path != "prices/spy.csv" {
		t.Errorf("unexpected series config: %+v", cfg.Series)
	}

	// Unset keys fall back to defaults
	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("expected default capital 10000, got %f", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.RiskFreeRate != 0.01 {
		t.Errorf("expected default risk-free rate 0.01, got %f", cfg.Backtest.RiskFreeRate)
	}
	if cfg.Series.Seed != 42 {
		t.Errorf("expected default seed 42, got %d", cfg.Series.Seed)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("CROSSOVER_TEST_SECRET", "s3cr3t")
	cfgPath := writeConfig(t, `
storage:
  type: s3
  s3:
    bucket: prices
    secret_key: "${CROSSOVER_TEST_SECRET}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.S3.SecretKey != "s3cr3t" {
		t.Errorf("expected expanded secret, got %q", cfg.Storage.S3.SecretKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the not-exist cause to be kept, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	cfgPath := writeConfig(t, "backtest:\n  short_window: [5\n")

	_, err := Load(cfgPath)
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
	if errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("malformed file reported as missing: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Backtest.ShortWindow != 20 || cfg.Backtest.LongWindow != 50 {
		t.Errorf("expected default 20/50 windows, got %d/%d", cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow)
	}
	if cfg.Series.NumDays != 100 {
		t.Errorf("expected default num_days 100, got %d", cfg.Series.NumDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSeriesConfig_StartTime(t *testing.T) {
	ts, err := Defaults().Series.StartTime()
	if err != nil {
		t.Fatal(err)
	}
	if ts.Format("2006-01-02") != "2023-01-01" {
		t.Errorf("unexpected start %s", ts)
	}

	ts, err = SeriesConfig{}.StartTime()
	if err != nil || !ts.IsZero() {
		t.Errorf("expected zero time, got %s (%v)", ts, err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantCode *core.Error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"long window below short", func(c *Config) { c.Backtest.LongWindow = 5 }, nil},
		{"zero short window", func(c *Config) { c.Backtest.ShortWindow = 0 }, core.ErrConfigInvalid},
		{"negative long window", func(c *Config) { c.Backtest.LongWindow = -3 }, core.ErrConfigInvalid},
		{"zero capital", func(c *Config) { c.Backtest.InitialCapital = 0 }, core.ErrConfigInvalid},
		{"zero num days", func(c *Config) { c.Series.NumDays = 0 }, core.ErrConfigInvalid},
		{"negative stddev", func(c *Config) { c.Series.StdDev = -1 }, core.ErrConfigInvalid},
		{"unknown source", func(c *Config) { c.Series.Source = "feed" }, core.ErrConfigInvalid},
		{"bad start date", func(c *Config) { c.Series.StartDate = "01/01/2023" }, core.ErrConfigInvalid},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, core.ErrConfigInvalid},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, core.ErrConfigInvalid},
		{"csv without path", func(c *Config) { c.Series.Source = "csv" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3" }, core.ErrConfigMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantCode == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode.Code)
			}
		})
	}
}
