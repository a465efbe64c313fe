package backtest

import (
	"math"

	"github.com/newthinker/crossover/internal/indicator"
)

// CalculateMetrics computes the summary statistics from a portfolio value
// series and the strategy returns that produced it. returns[0] is treated as
// undefined and excluded from the volatility.
func CalculateMetrics(portfolio, returns []float64, initialCapital, riskFreeRate float64) Metrics {
	n := len(portfolio)
	if n == 0 {
		return Metrics{
			AnnualizedVolatility: math.NaN(),
			SharpeRatio:          math.NaN(),
		}
	}

	totalReturn := portfolio[n-1] - initialCapital
	annualizedReturn := (totalReturn / initialCapital) * (float64(TradingDaysPerYear) / float64(n))
	volatility := calculateVolatility(returns)

	return Metrics{
		TotalReturn:          totalReturn,
		AnnualizedReturn:     annualizedReturn,
		AnnualizedVolatility: volatility,
		SharpeRatio:          calculateSharpeRatio(annualizedReturn, volatility, riskFreeRate),
		MaxDrawdown:          calculateMaxDrawdown(Drawdowns(portfolio)),
	}
}

// Drawdowns returns value[i]/max(value[0..i]) - 1 for every index
func Drawdowns(values []float64) []float64 {
	result := make([]float64, len(values))
	var peak float64
	for i, v := range values {
		if i == 0 || v > peak {
			peak = v
		}
		result[i] = v/peak - 1
	}
	return result
}

// calculateMaxDrawdown finds the most negative drawdown
func calculateMaxDrawdown(drawdowns []float64) float64 {
	var maxDD float64
	for _, dd := range drawdowns {
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// calculateVolatility annualises the sample standard deviation of the
// defined returns
func calculateVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	return indicator.SampleStdDev(returns[1:]) * math.Sqrt(TradingDaysPerYear)
}

// calculateSharpeRatio computes risk-adjusted return. Zero or undefined
// volatility yields NaN.
func calculateSharpeRatio(annualizedReturn, volatility, riskFreeRate float64) float64 {
	if math.IsNaN(volatility) || volatility == 0 {
		return math.NaN()
	}
	return (annualizedReturn - riskFreeRate) / volatility
}
