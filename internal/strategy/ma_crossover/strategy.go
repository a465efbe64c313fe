package ma_crossover

import (
	"fmt"

	"github.com/newthinker/crossover/internal/indicator"
)

// Signal values
const (
	Flat = 0
	Long = 1
)

// MACrossover holds a long position while the fast moving average is
// strictly above the slow one
type MACrossover struct {
	fastPeriod int
	slowPeriod int
}

// New creates a new MA Crossover strategy
func New(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

func (m *MACrossover) Name() string {
	return "ma_crossover"
}

func (m *MACrossover) Description() string {
	return fmt.Sprintf("MA Crossover (%d/%d)", m.fastPeriod, m.slowPeriod)
}

// Lines holds the moving averages behind a signal series
type Lines struct {
	Fast []float64
	Slow []float64
}

// Signals returns Long or Flat for every close. The first fastPeriod entries
// are a warm-up and always Flat, even where the shrinking-window averages
// would already cross.
func (m *MACrossover) Signals(closes []float64) ([]int, Lines) {
	lines := Lines{
		Fast: indicator.RollingMean(closes, m.fastPeriod),
		Slow: indicator.RollingMean(closes, m.slowPeriod),
	}

	signals := make([]int, len(closes))
	for i := max(m.fastPeriod, 0); i < len(closes); i++ {
		if lines.Fast[i] > lines.Slow[i] {
			signals[i] = Long
		}
	}
	return signals, lines
}

// Changes returns signal[i]-signal[i-1]: +1 on entry, -1 on exit. Index 0
// has no prior signal and is 0.
func Changes(signals []int) []int {
	changes := make([]int, len(signals))
	for i := 1; i < len(signals); i++ {
		changes[i] = signals[i] - signals[i-1]
	}
	return changes
}
