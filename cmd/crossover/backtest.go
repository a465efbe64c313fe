package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/crossover/internal/backtest"
	"github.com/newthinker/crossover/internal/config"
	"github.com/newthinker/crossover/internal/core"
	"github.com/newthinker/crossover/internal/metrics"
	"github.com/newthinker/crossover/internal/report"
	"github.com/newthinker/crossover/internal/series"
)

var (
	btShortWindow  int
	btLongWindow   int
	btRiskFreeRate float64
	btCapital      float64
	btRiskPerTrade float64
	btSource       string
	btInput        string
	btDays         int
	btSeed         int64
	btFormat       string
	btWithSeries   bool
	btTextfile     string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the crossover backtest",
	Long: `Run the moving average crossover against a synthetic or CSV close series
and show performance statistics. Flags override the config file.`,
	Args: cobra.NoArgs,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().IntVar(&btShortWindow, "short", backtest.DefaultShortWindow, "short moving average window")
	backtestCmd.Flags().IntVar(&btLongWindow, "long", backtest.DefaultLongWindow, "long moving average window")
	backtestCmd.Flags().Float64Var(&btRiskFreeRate, "risk-free", backtest.DefaultRiskFreeRate, "annualized risk-free rate")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", backtest.DefaultInitialCapital, "initial capital")
	backtestCmd.Flags().Float64Var(&btRiskPerTrade, "risk-per-trade", backtest.DefaultRiskPerTrade, "fraction of capital risked per trade")
	backtestCmd.Flags().StringVar(&btSource, "source", "synthetic", "series source: synthetic or csv")
	backtestCmd.Flags().StringVar(&btInput, "input", "", "CSV path in storage (implies --source csv)")
	backtestCmd.Flags().IntVar(&btDays, "days", 100, "synthetic series length")
	backtestCmd.Flags().Int64Var(&btSeed, "seed", 42, "synthetic series seed")
	backtestCmd.Flags().StringVarP(&btFormat, "format", "o", report.FormatText, "output format: text or json")
	backtestCmd.Flags().BoolVar(&btWithSeries, "series", false, "include per-day series in json output")
	backtestCmd.Flags().StringVar(&btTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")

	rootCmd.AddCommand(backtestCmd)
}

func backtestOverrides(cmd *cobra.Command) func(cfg *config.Config) {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if flags.Changed("short") {
			cfg.Backtest.ShortWindow = btShortWindow
		}
		if flags.Changed("long") {
			cfg.Backtest.LongWindow = btLongWindow
		}
		if flags.Changed("risk-free") {
			cfg.Backtest.RiskFreeRate = btRiskFreeRate
		}
		if flags.Changed("capital") {
			cfg.Backtest.InitialCapital = btCapital
		}
		if flags.Changed("risk-per-trade") {
			cfg.Backtest.RiskPerTrade = btRiskPerTrade
		}
		if flags.Changed("source") {
			cfg.Series.Source = btSource
		}
		if flags.Changed("input") {
			cfg.Series.Source = "csv"
			cfg.Series.Path = btInput
		}
		if flags.Changed("days") {
			cfg.Series.NumDays = btDays
		}
		if flags.Changed("seed") {
			cfg.Series.Seed = btSeed
		}
		if flags.Changed("metrics-textfile") {
			cfg.Metrics.Enabled = true
			cfg.Metrics.Textfile = btTextfile
		}
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if err := report.ValidateFormat(btFormat); err != nil {
		return err
	}

	cfg, log, err := setup(backtestOverrides(cmd))
	if err != nil {
		return err
	}
	defer log.Sync()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prices, err := loadSeries(ctx, cfg)
	if err != nil {
		return err
	}

	params := backtest.Params{
		ShortWindow:  cfg.Backtest.ShortWindow,
		LongWindow:   cfg.Backtest.LongWindow,
		RiskFreeRate: cfg.Backtest.RiskFreeRate,
	}
	if params.LongWindow < params.ShortWindow {
		log.Warn("long window is shorter than short window",
			zap.Int("short_window", params.ShortWindow),
			zap.Int("long_window", params.LongWindow),
		)
	}

	log.Info("running backtest",
		zap.String("source", cfg.Series.Source),
		zap.Int("observations", prices.Len()),
		zap.Int("short_window", params.ShortWindow),
		zap.Int("long_window", params.LongWindow),
		zap.Float64("initial_capital", cfg.Backtest.InitialCapital),
	)

	reg := metrics.NewRegistry()
	start := time.Now()
	result, err := backtest.New(prices, params).Backtest(cfg.Backtest.InitialCapital, cfg.Backtest.RiskPerTrade)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, core.ErrInvalidArgument) {
			status = metrics.StatusInvalid
		}
		reg.RecordBacktest(status, elapsed)
		writeMetrics(cfg, reg, log)
		return fmt.Errorf("backtest failed: %w", err)
	}

	status := metrics.StatusOK
	if derr := result.Metrics.Degeneracy(); derr != nil {
		status = metrics.StatusDegenerate
		log.Warn("sharpe ratio undefined", zap.Error(derr))
	}
	reg.RecordBacktest(status, elapsed)
	reg.RecordRun(summaryOf(result))
	writeMetrics(cfg, reg, log)

	log.Info("backtest complete",
		zap.Float64("total_return", result.Metrics.TotalReturn),
		zap.Float64("max_drawdown", result.Metrics.MaxDrawdown),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report.Write(cmd.OutOrStdout(), report.Summarize(runID, result, btWithSeries), btFormat)
}

func loadSeries(ctx context.Context, cfg *config.Config) (core.PriceSeries, error) {
	if cfg.Series.Source == "csv" {
		store, err := newStorage(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating storage: %w", err)
		}
		return series.Load(ctx, store, cfg.Series.Path)
	}

	gen, err := newGenerator(cfg.Series)
	if err != nil {
		return nil, err
	}
	return gen.Generate(cfg.Series.NumDays)
}

func summaryOf(r *backtest.Result) metrics.RunSummary {
	var trades int
	for _, p := range r.Positions {
		if p != 0 {
			trades++
		}
	}
	return metrics.RunSummary{
		Observations:         r.Len(),
		Trades:               trades,
		TotalReturn:          r.Metrics.TotalReturn,
		AnnualizedReturn:     r.Metrics.AnnualizedReturn,
		AnnualizedVolatility: r.Metrics.AnnualizedVolatility,
		SharpeRatio:          r.Metrics.SharpeRatio,
		MaxDrawdown:          r.Metrics.MaxDrawdown,
	}
}

func writeMetrics(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) {
	if !cfg.Metrics.Enabled || cfg.Metrics.Textfile == "" {
		return
	}
	if err := reg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Error("writing metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
	}
}
