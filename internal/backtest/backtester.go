package backtest

import (
	"math"
	"slices"

	"github.com/newthinker/crossover/internal/core"
	"github.com/newthinker/crossover/internal/indicator"
	"github.com/newthinker/crossover/internal/strategy/ma_crossover"
)

// Backtester runs the moving average crossover over a fixed close series.
// It holds no mutable state; every call produces fresh slices.
type Backtester struct {
	series   core.PriceSeries
	params   Params
	strategy *ma_crossover.MACrossover
}

// New creates a new Backtester over a copy of series
func New(series core.PriceSeries, params Params) *Backtester {
	return &Backtester{
		series:   slices.Clone(series),
		params:   params,
		strategy: ma_crossover.New(params.ShortWindow, params.LongWindow),
	}
}

// Params returns the strategy parameters
func (b *Backtester) Params() Params {
	return b.params
}

// GenerateSignals returns 1 where the short moving average is strictly above
// the long one and 0 otherwise. The first ShortWindow entries are always 0.
func (b *Backtester) GenerateSignals() ([]int, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	signals, _ := b.strategy.Signals(b.series.Closes())
	return signals, nil
}

// Backtest generates signals and simulates a long/flat portfolio starting at
// initialCapital. riskPerTrade is recorded on the result but does not size
// positions; see PositionSizing.
func (b *Backtester) Backtest(initialCapital, riskPerTrade float64) (*Result, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(initialCapital) || math.IsInf(initialCapital, 0) || initialCapital <= 0 {
		return nil, core.InvalidArgument("initial capital must be positive, got %v", initialCapital)
	}

	closes := b.series.Closes()
	n := len(closes)
	signals, lines := b.strategy.Signals(closes)

	// Yesterday's signal gates today's return
	pct := indicator.PctChange(closes)
	returns := make([]float64, n)
	for i := 1; i < n; i++ {
		returns[i] = pct[i] * float64(signals[i-1])
	}

	portfolio := make([]float64, n)
	growth := 1.0
	for i := 0; i < n; i++ {
		growth *= 1 + returns[i]
		portfolio[i] = initialCapital * growth
	}

	return &Result{
		Params:         b.params,
		InitialCapital: initialCapital,
		RiskPerTrade:   riskPerTrade,
		Times:          b.series.Times(),
		Closes:         closes,
		ShortMAvg:      lines.Fast,
		LongMAvg:       lines.Slow,
		Signals:        signals,
		Positions:      ma_crossover.Changes(signals),
		Returns:        returns,
		PortfolioValue: portfolio,
		Drawdown:       Drawdowns(portfolio),
		Metrics:        CalculateMetrics(portfolio, returns, initialCapital, b.params.RiskFreeRate),
	}, nil
}

// PositionSizing returns the amount of capital risked on a single trade
func PositionSizing(capital, riskPerTrade float64) float64 {
	return capital * riskPerTrade
}

func (b *Backtester) validate() error {
	if err := b.params.Validate(); err != nil {
		return err
	}
	return b.series.Validate()
}

