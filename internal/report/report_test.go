package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/crossover/internal/backtest"
	"github.com/newthinker/crossover/internal/core"
)

func runBacktest(t *testing.T, closes ...float64) *backtest.Result {
	t.Helper()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(core.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = core.PricePoint{Time: base.AddDate(0, 0, i), Close: c}
	}
	result, err := backtest.New(s, backtest.Params{ShortWindow: 1, LongWindow: 2, RiskFreeRate: 0.01}).
		Backtest(1000, 0.02)
	require.NoError(t, err)
	return result
}

func TestSummarize(t *testing.T) {
	result := runBacktest(t, 10, 11, 12, 11, 13)

	s := Summarize("run-1", result, true)

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 5, s.Observations)
	assert.Equal(t, 20.0, s.PositionSize)
	assert.Equal(t, "2023-01-05", s.End.Format(time.DateOnly))
	require.Len(t, s.Series, 5)
	assert.Equal(t, 1, s.Series[1].Signal)
	assert.Equal(t, -1, s.Series[3].Position)
	require.NotNil(t, s.SharpeRatio)
	assert.Empty(t, s.Degenerate)
}

func TestSummarize_Degenerate(t *testing.T) {
	result := runBacktest(t, 100, 100, 100, 100)

	s := Summarize("", result, false)

	assert.Nil(t, s.SharpeRatio)
	assert.NotNil(t, s.AnnualizedVolatility)
	assert.Contains(t, s.Degenerate, "DEGENERATE_RESULT")
	assert.Nil(t, s.Series)
}

func TestWrite_JSON(t *testing.T) {
	result := runBacktest(t, 100, 100, 100)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summarize("abc", result, true), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded["sharpe_ratio"])
	assert.Equal(t, "abc", decoded["run_id"])
	assert.Len(t, decoded["series"], 3)
}

func TestWrite_Text(t *testing.T) {
	result := runBacktest(t, 100, 100, 100)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Summarize("", result, false), FormatText))

	out := buf.String()
	for _, want := range []string{"Total Return:", "Annualized Return:", "Annualized Volatility:", "Max Drawdown:"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.Contains(out, "Sharpe Ratio:") && strings.Contains(out, "undefined"))
}

func TestWrite_UnknownFormat(t *testing.T) {
	result := runBacktest(t, 100, 101)
	var buf bytes.Buffer
	err := Write(&buf, Summarize("", result, false), "xml")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, buf.Len())
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, ""} {
		assert.NoError(t, ValidateFormat(format), format)
	}
	for _, format := range []string{"xml", "JSON", "csv"} {
		assert.ErrorIs(t, ValidateFormat(format), core.ErrInvalidArgument, format)
	}
}
