package series

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/crossover/internal/core"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(DefaultGeneratorConfig())

	s, err := gen.Generate(100)
	require.NoError(t, err)
	require.Len(t, s, 100)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start, s[0].Time)
	assert.Equal(t, start.AddDate(0, 0, 99), s[99].Time)

	// Cumulative sum of N(100,1) draws grows by roughly 100 a day
	assert.InDelta(t, 100, s[0].Close, 6)
	assert.InDelta(t, 10000, s[99].Close, 100)
	require.NoError(t, s.Validate())
}

func TestGenerator_Deterministic(t *testing.T) {
	gen := NewGenerator(DefaultGeneratorConfig())

	a, err := gen.Generate(50)
	require.NoError(t, err)
	b, err := gen.Generate(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// A longer run shares the prefix
	c, err := gen.Generate(80)
	require.NoError(t, err)
	assert.Equal(t, a, c[:50])
}

func TestGenerator_SeedChangesSeries(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	a, _ := NewGenerator(cfg).Generate(10)
	cfg.Seed = 7
	b, _ := NewGenerator(cfg).Generate(10)

	assert.NotEqual(t, a[0].Close, b[0].Close)
}

func TestGenerator_ZeroStdDev(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.StdDev = 0
	cfg.Mean = 5

	s, err := NewGenerator(cfg).Generate(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 15}, s.Closes())
}

func TestGenerator_InvalidArguments(t *testing.T) {
	gen := NewGenerator(DefaultGeneratorConfig())
	for _, n := range []int{0, -1} {
		_, err := gen.Generate(n)
		assert.True(t, errors.Is(err, core.ErrInvalidArgument), "num_days=%d: %v", n, err)
	}

	cfg := DefaultGeneratorConfig()
	cfg.StdDev = -1
	_, err := NewGenerator(cfg).Generate(5)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))
}
