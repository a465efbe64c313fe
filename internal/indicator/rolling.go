package indicator

import "math"

// RollingMean calculates a moving average over the last period values with
// a minimum of one observation: result[i] averages prices[max(0,i-period+1)..i].
// The result has the same length as prices.
func RollingMean(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if period <= 0 || len(prices) == 0 {
		return result
	}

	// Summing offsets from the first price makes a constant window average
	// to exactly that price for every window length.
	base := prices[0]

	// Compensated running sum keeps long series from drifting
	var sum, comp float64
	add := func(v float64) {
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}

	for i, p := range prices {
		add(p - base)
		if i >= period {
			add(-(prices[i-period] - base))
		}
		count := min(i+1, period)
		result[i] = base + sum/float64(count)
	}

	return result
}

// PctChange returns (prices[i]-prices[i-1])/prices[i-1]. Index 0 has no
// prior observation and is left at zero.
func PctChange(prices []float64) []float64 {
	result := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		result[i] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return result
}

// Mean returns the arithmetic mean, or NaN for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the standard deviation with n-1 degrees of freedom.
// Fewer than two values yield NaN.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := Mean(values)
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}
