package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/crossover/internal/config"
	"github.com/newthinker/crossover/internal/logger"
	"github.com/newthinker/crossover/internal/series"
	"github.com/newthinker/crossover/internal/storage/archive"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "crossover",
	Short: "Moving average crossover backtester",
	Long: `crossover computes a long/flat moving average crossover signal over a
daily close series and reports return, volatility, Sharpe ratio and drawdown.
Without a subcommand it runs the default backtest.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBacktest(backtestCmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates configuration, applies flag overrides and builds
// the logger.
func setup(override func(cfg *config.Config)) (*config.Config, *zap.Logger, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := logger.New(debug, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	if cfgFile == "" {
		log.Debug("no config file specified, using defaults")
	}

	return cfg, log, nil
}

func newStorage(cfg *config.Config) (archive.Storage, error) {
	return archive.New(archive.Options{
		Type: cfg.Storage.Type,
		Path: cfg.Storage.Path,
		S3: archive.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Prefix:    cfg.Storage.S3.Prefix,
		},
	})
}

func newGenerator(cfg config.SeriesConfig) (*series.Generator, error) {
	start, err := cfg.StartTime()
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	return series.NewGenerator(series.GeneratorConfig{
		Seed:   cfg.Seed,
		Mean:   cfg.Mean,
		StdDev: cfg.StdDev,
		Start:  start,
	}), nil
}
