// Package stats holds the numeric primitives shared by the trend analyzer,
// the progress scorer and the gamification engine. Every function degrades to
// a neutral value on degenerate input instead of returning an error.
package stats

import "math"

// Average returns the arithmetic mean of values, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev returns the population standard deviation of values, or 0
// for fewer than two samples.
func PopulationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Average(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// PearsonCorrelation returns Pearson's r between x and y. Both slices must be
// the same length. Fewer than three pairs, or zero variance in either series,
// yields 0 rather than NaN.
func PearsonCorrelation(x, y []float64) float64 {
	n := len(x)
	if n < 3 || n != len(y) {
		return 0
	}
	meanX := Average(x)
	meanY := Average(y)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}
	return cov / denom
}
