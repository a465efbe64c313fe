// Package series supplies daily close series, either synthetic or read from
// CSV files in archive storage.
package series

import (
	"math"
	"math/rand"
	"time"

	"github.com/newthinker/crossover/internal/core"
)

// GeneratorConfig controls synthetic series generation
type GeneratorConfig struct {
	Seed   int64
	Mean   float64   // Mean of each daily draw
	StdDev float64   // Standard deviation of each daily draw
	Start  time.Time // Timestamp of the first point
}

// DefaultGeneratorConfig returns seed 42 draws of N(100, 1) starting 2023-01-01
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:   42,
		Mean:   100,
		StdDev: 1,
		Start:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generator produces reproducible synthetic close series
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator creates a Generator
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate returns numDays consecutive calendar days whose closes are the
// cumulative sum of normal draws. Each call reseeds, so the same numDays and
// config always give the same series.
func (g *Generator) Generate(numDays int) (core.PriceSeries, error) {
	if numDays < 1 {
		return nil, core.InvalidArgument("num_days must be positive, got %d", numDays)
	}
	if math.IsNaN(g.cfg.StdDev) || g.cfg.StdDev < 0 {
		return nil, core.InvalidArgument("stddev must be non-negative, got %v", g.cfg.StdDev)
	}

	rng := rand.New(rand.NewSource(g.cfg.Seed))
	start := g.cfg.Start
	if start.IsZero() {
		start = DefaultGeneratorConfig().Start
	}

	series := make(core.PriceSeries, numDays)
	var price float64
	for i := range series {
		price += g.cfg.Mean + g.cfg.StdDev*rng.NormFloat64()
		series[i] = core.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Close: price,
		}
	}
	return series, nil
}
