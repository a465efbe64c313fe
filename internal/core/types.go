package core

import (
	"math"
	"time"
)

// PricePoint is a single daily close
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries is a close series ordered by ascending time
type PriceSeries []PricePoint

// Len returns the number of observations
func (s PriceSeries) Len() int {
	return len(s)
}

// Closes extracts the closing prices into a new slice
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Times extracts the timestamps into a new slice
func (s PriceSeries) Times() []time.Time {
	times := make([]time.Time, len(s))
	for i, p := range s {
		times[i] = p.Time
	}
	return times
}

// Validate checks the series is non-empty, strictly ordered by time and
// carries positive finite closes.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return WrapError(ErrInvalidArgument, ErrNoData)
	}
	for i, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			return InvalidArgument("close at index %d must be positive and finite, got %v", i, p.Close)
		}
		if i > 0 && !p.Time.After(s[i-1].Time) {
			return InvalidArgument("timestamps must be strictly increasing, index %d (%s) follows %s",
				i, p.Time.Format(time.DateOnly), s[i-1].Time.Format(time.DateOnly))
		}
	}
	return nil
}
