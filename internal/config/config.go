package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/newthinker/crossover/internal/core"
)

type Config struct {
	Backtest BacktestConfig `mapstructure:"backtest"`
	Series   SeriesConfig   `mapstructure:"series"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// BacktestConfig holds strategy parameters and the simulated account.
// long_window below short_window is accepted.
type BacktestConfig struct {
	ShortWindow    int     `mapstructure:"short_window" validate:"gt=0"`
	LongWindow     int     `mapstructure:"long_window" validate:"gt=0"`
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	InitialCapital float64 `mapstructure:"initial_capital" validate:"gt=0"`
	RiskPerTrade   float64 `mapstructure:"risk_per_trade" validate:"gte=0"`
}

// SeriesConfig selects where closes come from
type SeriesConfig struct {
	Source    string  `mapstructure:"source" validate:"oneof=synthetic csv"`
	NumDays   int     `mapstructure:"num_days" validate:"gt=0"`
	Seed      int64   `mapstructure:"seed"`
	Mean      float64 `mapstructure:"mean"`
	StdDev    float64 `mapstructure:"stddev" validate:"gte=0"`
	StartDate string  `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Path      string  `mapstructure:"path"` // Storage path of the CSV when source is csv
}

type StorageConfig struct {
	Type string   `mapstructure:"type" validate:"oneof=localfs s3"`
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"` // Prometheus textfile written after each run
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// StartTime parses StartDate, returning the zero time when unset
func (s SeriesConfig) StartTime() (time.Time, error) {
	if s.StartDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s.StartDate)
}

// Load reads configuration from file. Keys missing from the file keep
// their Defaults() value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("reading config: %w", err))
		}
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("reading config: %w", err))
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backtest.short_window", d.Backtest.ShortWindow)
	v.SetDefault("backtest.long_window", d.Backtest.LongWindow)
	v.SetDefault("backtest.risk_free_rate", d.Backtest.RiskFreeRate)
	v.SetDefault("backtest.initial_capital", d.Backtest.InitialCapital)
	v.SetDefault("backtest.risk_per_trade", d.Backtest.RiskPerTrade)

	v.SetDefault("series.source", d.Series.Source)
	v.SetDefault("series.num_days", d.Series.NumDays)
	v.SetDefault("series.seed", d.Series.Seed)
	v.SetDefault("series.mean", d.Series.Mean)
	v.SetDefault("series.stddev", d.Series.StdDev)
	v.SetDefault("series.start_date", d.Series.StartDate)
	v.SetDefault("series.path", d.Series.Path)

	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.path", d.Storage.Path)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Backtest: BacktestConfig{
			ShortWindow:    20,
			LongWindow:     50,
			RiskFreeRate:   0.01,
			InitialCapital: 10000,
			RiskPerTrade:   0.01,
		},
		Series: SeriesConfig{
			Source:    "synthetic",
			NumDays:   100,
			Seed:      42,
			Mean:      100,
			StdDev:    1,
			StartDate: "2023-01-01",
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: ".",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	// Source-specific requirements
	if c.Series.Source == "csv" && c.Series.Path == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("series path required when source is csv"))
	}
	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("s3 bucket required when storage type is s3"))
	}

	return nil
}
