package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coachpulse/internal/stats"
)

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, stats.Average(nil))
	assert.Equal(t, 0.0, stats.Average([]float64{}))
	assert.Equal(t, 7.5, stats.Average([]float64{7.5}))
	assert.Equal(t, 5.0, stats.Average([]float64{4, 5, 6}))

	// order does not matter
	assert.Equal(t,
		stats.Average([]float64{1, 9, 3, 7}),
		stats.Average([]float64{7, 3, 9, 1}),
	)
}

func TestPopulationStdDev(t *testing.T) {
	assert.Equal(t, 0.0, stats.PopulationStdDev(nil))
	assert.Equal(t, 0.0, stats.PopulationStdDev([]float64{42}))
	assert.Equal(t, 0.0, stats.PopulationStdDev([]float64{5, 5, 5, 5}))
	assert.InDelta(t, 2.0, stats.PopulationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestPearsonCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	assert.InDelta(t, 1.0, stats.PearsonCorrelation(x, x), 1e-9)
	assert.InDelta(t, 1.0, stats.PearsonCorrelation(x, y), 1e-9)
	assert.Equal(t,
		stats.PearsonCorrelation(x, []float64{5, 3, 8, 1, 9}),
		stats.PearsonCorrelation([]float64{5, 3, 8, 1, 9}, x),
	)

	down := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, stats.PearsonCorrelation(x, down), 1e-9)
}

func TestPearsonCorrelationDegenerateInputs(t *testing.T) {
	// too short
	assert.Equal(t, 0.0, stats.PearsonCorrelation([]float64{1, 2}, []float64{3, 4}))
	// length mismatch
	assert.Equal(t, 0.0, stats.PearsonCorrelation([]float64{1, 2, 3}, []float64{1, 2}))
	// zero variance must not produce NaN
	assert.Equal(t, 0.0, stats.PearsonCorrelation([]float64{5, 5, 5}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, stats.PearsonCorrelation([]float64{1, 2, 3}, []float64{7, 7, 7}))
}
