// Package report renders backtest results for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/newthinker/crossover/internal/backtest"
	"github.com/newthinker/crossover/internal/core"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Summary is the JSON shape of a result. Undefined figures are null.
type Summary struct {
	RunID          string     `json:"run_id,omitempty"`
	ShortWindow    int        `json:"short_window"`
	LongWindow     int        `json:"long_window"`
	RiskFreeRate   float64    `json:"risk_free_rate"`
	InitialCapital float64    `json:"initial_capital"`
	PositionSize   float64    `json:"position_size"`
	Observations   int        `json:"observations"`
	Start          *time.Time `json:"start,omitempty"`
	End            *time.Time `json:"end,omitempty"`
	FinalValue     float64    `json:"final_value"`

	TotalReturn          float64  `json:"total_return"`
	AnnualizedReturn     float64  `json:"annualized_return"`
	AnnualizedVolatility *float64 `json:"annualized_volatility"`
	SharpeRatio          *float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64  `json:"max_drawdown"`
	Degenerate           string   `json:"degenerate,omitempty"`

	Series []Row `json:"series,omitempty"`
}

// Row is one aligned step of the derived series
type Row struct {
	Time           time.Time `json:"time"`
	Close          float64   `json:"close"`
	ShortMAvg      float64   `json:"short_mavg"`
	LongMAvg       float64   `json:"long_mavg"`
	Signal         int       `json:"signal"`
	Position       int       `json:"position"`
	Return         float64   `json:"strategy_return"`
	PortfolioValue float64   `json:"portfolio_value"`
	Drawdown       float64   `json:"drawdown"`
}

// Summarize flattens a result. withSeries includes every row.
func Summarize(runID string, r *backtest.Result, withSeries bool) Summary {
	m := r.Metrics
	s := Summary{
		RunID:                runID,
		ShortWindow:          r.Params.ShortWindow,
		LongWindow:           r.Params.LongWindow,
		RiskFreeRate:         r.Params.RiskFreeRate,
		InitialCapital:       r.InitialCapital,
		PositionSize:         backtest.PositionSizing(r.InitialCapital, r.RiskPerTrade),
		Observations:         r.Len(),
		TotalReturn:          m.TotalReturn,
		AnnualizedReturn:     m.AnnualizedReturn,
		AnnualizedVolatility: finite(m.AnnualizedVolatility),
		SharpeRatio:          finite(m.SharpeRatio),
		MaxDrawdown:          m.MaxDrawdown,
	}

	if n := r.Len(); n > 0 {
		s.FinalValue = r.PortfolioValue[n-1]
		if len(r.Times) == n {
			start, end := r.Times[0], r.Times[n-1]
			s.Start, s.End = &start, &end
		}
	}
	if err := m.Degeneracy(); err != nil {
		s.Degenerate = err.Error()
	}

	if withSeries {
		s.Series = make([]Row, r.Len())
		for i := range s.Series {
			row := Row{
				Close:          r.Closes[i],
				ShortMAvg:      r.ShortMAvg[i],
				LongMAvg:       r.LongMAvg[i],
				Signal:         r.Signals[i],
				Position:       r.Positions[i],
				Return:         r.Returns[i],
				PortfolioValue: r.PortfolioValue[i],
				Drawdown:       r.Drawdown[i],
			}
			if i < len(r.Times) {
				row.Time = r.Times[i]
			}
			s.Series[i] = row
		}
	}

	return s
}

// ValidateFormat reports whether format is one Write can render.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatText, "":
		return nil
	default:
		return core.InvalidArgument("unknown format %q", format)
	}
}

// Write renders s in the given format
func Write(w io.Writer, s Summary, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return writeText(w, s)
}

func writeText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "=== Crossover Backtest ===")
	if s.RunID != "" {
		fmt.Fprintf(tw, "Run:\t%s\n", s.RunID)
	}
	fmt.Fprintf(tw, "Windows:\t%d / %d\n", s.ShortWindow, s.LongWindow)
	if s.Start != nil && s.End != nil {
		fmt.Fprintf(tw, "Period:\t%s to %s (%d days)\n",
			s.Start.Format(time.DateOnly), s.End.Format(time.DateOnly), s.Observations)
	}
	fmt.Fprintf(tw, "Initial Capital:\t%.2f\n", s.InitialCapital)
	fmt.Fprintf(tw, "Position Size:\t%.2f\n", s.PositionSize)
	fmt.Fprintf(tw, "Final Value:\t%.2f\n", s.FinalValue)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Total Return:\t%.4f\n", s.TotalReturn)
	fmt.Fprintf(tw, "Annualized Return:\t%.4f\n", s.AnnualizedReturn)
	fmt.Fprintf(tw, "Annualized Volatility:\t%s\n", formatOptional(s.AnnualizedVolatility))
	fmt.Fprintf(tw, "Sharpe Ratio:\t%s\n", formatOptional(s.SharpeRatio))
	fmt.Fprintf(tw, "Max Drawdown:\t%.4f\n", s.MaxDrawdown)
	if s.Degenerate != "" {
		fmt.Fprintf(tw, "Note:\t%s\n", s.Degenerate)
	}

	return tw.Flush()
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatOptional(v *float64) string {
	if v == nil {
		return "undefined"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
