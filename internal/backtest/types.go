package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/newthinker/crossover/internal/core"
)

// Defaults used when the caller does not override them
const (
	DefaultShortWindow    = 20
	DefaultLongWindow     = 50
	DefaultRiskFreeRate   = 0.01
	DefaultInitialCapital = 10000.0
	DefaultRiskPerTrade   = 0.01

	// TradingDaysPerYear annualises daily figures
	TradingDaysPerYear = 252
)

// Params holds the strategy parameters
type Params struct {
	ShortWindow  int
	LongWindow   int
	RiskFreeRate float64 // Annualised
}

// DefaultParams returns the 20/50 crossover with a 1% risk-free rate
func DefaultParams() Params {
	return Params{
		ShortWindow:  DefaultShortWindow,
		LongWindow:   DefaultLongWindow,
		RiskFreeRate: DefaultRiskFreeRate,
	}
}

// Validate checks window sizes. LongWindow below ShortWindow is allowed.
func (p Params) Validate() error {
	if p.ShortWindow <= 0 {
		return core.InvalidArgument("short window must be positive, got %d", p.ShortWindow)
	}
	if p.LongWindow <= 0 {
		return core.InvalidArgument("long window must be positive, got %d", p.LongWindow)
	}
	if math.IsNaN(p.RiskFreeRate) || math.IsInf(p.RiskFreeRate, 0) {
		return core.InvalidArgument("risk-free rate must be finite, got %v", p.RiskFreeRate)
	}
	return nil
}

// Result holds the complete backtest output. Every series is aligned
// index-for-index with the input prices.
type Result struct {
	Params         Params
	InitialCapital float64
	RiskPerTrade   float64

	Times     []time.Time
	Closes    []float64
	ShortMAvg []float64
	LongMAvg  []float64

	Signals   []int     // 1 = long, 0 = flat
	Positions []int     // Signal change; index 0 has no prior signal and is 0
	Returns   []float64 // Strategy return; index 0 has no prior close and is 0

	PortfolioValue []float64
	Drawdown       []float64 // Always <= 0

	Metrics Metrics
}

// Len returns the number of observations in the result
func (r *Result) Len() int {
	return len(r.Closes)
}

// Metrics holds the summary performance statistics
type Metrics struct {
	TotalReturn          float64 // Final portfolio value minus initial capital
	AnnualizedReturn     float64 // Linear: total/capital * 252/N
	AnnualizedVolatility float64 // NaN with fewer than two returns
	SharpeRatio          float64 // NaN when volatility is zero or undefined
	MaxDrawdown          float64 // Most negative drawdown, 0 if value never declines
}

// SharpeDefined reports whether the Sharpe ratio is a finite number
func (m Metrics) SharpeDefined() bool {
	return !math.IsNaN(m.SharpeRatio) && !math.IsInf(m.SharpeRatio, 0)
}

// Degeneracy returns ErrDegenerateResult describing why the Sharpe ratio is
// undefined, or nil.
func (m Metrics) Degeneracy() error {
	if m.SharpeDefined() {
		return nil
	}
	if math.IsNaN(m.AnnualizedVolatility) {
		return core.WrapError(core.ErrDegenerateResult,
			fmt.Errorf("volatility undefined: fewer than two strategy returns"))
	}
	return core.WrapError(core.ErrDegenerateResult,
		fmt.Errorf("zero volatility: strategy returns are constant"))
}
