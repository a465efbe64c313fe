package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run statuses
const (
	StatusOK         = "ok"
	StatusDegenerate = "degenerate"
	StatusInvalid    = "invalid"
	StatusError      = "error"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal   *prometheus.CounterVec
	backtestDuration prometheus.Histogram
	observations     prometheus.Gauge
	tradesTotal      prometheus.Counter

	// Last completed run
	totalReturn      prometheus.Gauge
	annualizedReturn prometheus.Gauge
	volatility       prometheus.Gauge
	sharpeRatio      prometheus.Gauge
	maxDrawdown      prometheus.Gauge
}

// RunSummary is the subset of a backtest result recorded as gauges
type RunSummary struct {
	Observations         int
	Trades               int
	TotalReturn          float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		Registry: reg,

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crossover_backtests_total",
				Help: "Total number of backtests by outcome",
			},
			[]string{"status"},
		),
		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crossover_backtest_duration_seconds",
				Help:    "Backtest duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 10, 6),
			},
		),
		observations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "crossover_series_observations",
				Help: "Number of closes in the last backtested series",
			},
		),
		tradesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crossover_position_changes_total",
				Help: "Total number of position entries and exits across runs",
			},
		),
		totalReturn:      newGauge("crossover_total_return", "Total return of the last run in account currency"),
		annualizedReturn: newGauge("crossover_annualized_return", "Linear annualized return of the last run"),
		volatility:       newGauge("crossover_annualized_volatility", "Annualized volatility of the last run"),
		sharpeRatio:      newGauge("crossover_sharpe_ratio", "Sharpe ratio of the last run, NaN when undefined"),
		maxDrawdown:      newGauge("crossover_max_drawdown", "Max drawdown of the last run as a non-positive fraction"),
	}

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.observations)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.totalReturn)
	reg.MustRegister(r.annualizedReturn)
	reg.MustRegister(r.volatility)
	reg.MustRegister(r.sharpeRatio)
	reg.MustRegister(r.maxDrawdown)

	return r
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordRun sets the last-run gauges.
func (r *Registry) RecordRun(s RunSummary) {
	r.observations.Set(float64(s.Observations))
	r.tradesTotal.Add(float64(s.Trades))
	r.totalReturn.Set(s.TotalReturn)
	r.annualizedReturn.Set(s.AnnualizedReturn)
	r.volatility.Set(s.AnnualizedVolatility)
	r.sharpeRatio.Set(s.SharpeRatio)
	r.maxDrawdown.Set(s.MaxDrawdown)
}

// WriteTextfile writes every metric in the text exposition format, for the
// node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r)
}
