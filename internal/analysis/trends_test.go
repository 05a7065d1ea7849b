package analysis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachpulse/internal/analysis"
	"coachpulse/internal/models"
)

func fp(v float64) *float64 { return &v }

func checkinOn(offset int) models.CheckinRecord {
	return models.CheckinRecord{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset),
	}
}

func findTrend(t *testing.T, results []analysis.TrendResult, id string) analysis.TrendResult {
	t.Helper()
	for _, r := range results {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("trend %q not found in %+v", id, results)
	return analysis.TrendResult{}
}

func TestAnalyzeTrendsInsufficientData(t *testing.T) {
	for _, checkins := range [][]models.CheckinRecord{
		nil,
		{checkinOn(0)},
		{checkinOn(0), checkinOn(-1)},
	} {
		results := analysis.AnalyzeTrends(checkins)
		require.Len(t, results, 1)
		assert.Equal(t, "insufficient_data", results[0].ID)
		assert.Equal(t, analysis.TrendNeutral, results[0].Category)
	}
}

func TestAnalyzeTrendsWeightDecreasing(t *testing.T) {
	weights := []float64{90, 90, 88, 85, 84} // oldest to newest
	var checkins []models.CheckinRecord
	for i, w := range weights {
		c := checkinOn(i)
		c.Weight = w
		c.TotalScore = 7
		checkins = append(checkins, c)
	}

	results := analysis.AnalyzeTrends(checkins)
	trend := findTrend(t, results, "weight_decreasing")
	assert.Equal(t, analysis.TrendPositive, trend.Category)
	assert.Equal(t, 85, trend.Confidence)
}

func TestAnalyzeTrendsWeightStable(t *testing.T) {
	var checkins []models.CheckinRecord
	for i := 0; i < 5; i++ {
		c := checkinOn(i)
		c.Weight = 80.1
		c.TotalScore = 7
		checkins = append(checkins, c)
	}
	results := analysis.AnalyzeTrends(checkins)
	trend := findTrend(t, results, "weight_stable")
	assert.Equal(t, analysis.TrendNeutral, trend.Category)
}

func TestAnalyzeTrendsWeightSkippedWithoutEnoughMeasurements(t *testing.T) {
	var checkins []models.CheckinRecord
	for i := 0; i < 5; i++ {
		c := checkinOn(i)
		c.TotalScore = 7
		if i == 0 {
			c.Weight = 90 // only one usable weight
		}
		checkins = append(checkins, c)
	}
	for _, r := range analysis.AnalyzeTrends(checkins) {
		assert.NotContains(t, r.ID, "weight")
	}
}

func TestAnalyzeTrendsMetricPatterns(t *testing.T) {
	var checkins []models.CheckinRecord
	for i := 0; i < 5; i++ {
		c := checkinOn(i)
		c.SleepScore = fp(9)
		c.WaterScore = fp(4)
		c.TotalScore = 7
		checkins = append(checkins, c)
	}

	results := analysis.AnalyzeTrends(checkins)
	sleep := findTrend(t, results, "sleep_pattern_high")
	assert.Equal(t, analysis.TrendPositive, sleep.Category)

	water := findTrend(t, results, "water_pattern_low")
	assert.Equal(t, analysis.TrendNegative, water.Category)
	assert.NotEmpty(t, water.Recommendation)
}

func TestAnalyzeTrendsConsistency(t *testing.T) {
	var steady []models.CheckinRecord
	for i := 0; i < 6; i++ {
		c := checkinOn(i)
		c.TotalScore = 7.5
		steady = append(steady, c)
	}
	r := findTrend(t, analysis.AnalyzeTrends(steady), "high_consistency")
	assert.Equal(t, 88, r.Confidence)

	var swingy []models.CheckinRecord
	for i, score := range []float64{2, 9, 3, 10, 1, 9} {
		c := checkinOn(i)
		c.TotalScore = score
		swingy = append(swingy, c)
	}
	r = findTrend(t, analysis.AnalyzeTrends(swingy), "high_variation")
	assert.Equal(t, 75, r.Confidence)
}

func TestAnalyzeTrendsWeekendDip(t *testing.T) {
	// 2025-06-02 is a Monday
	scores := map[int]float64{0: 8, 1: 8, 2: 8, 5: 4, 6: 4} // Mon-Wed high, Sat-Sun low
	var checkins []models.CheckinRecord
	for offset, score := range scores {
		c := checkinOn(offset)
		c.TotalScore = score
		checkins = append(checkins, c)
	}
	r := findTrend(t, analysis.AnalyzeTrends(checkins), "weekend_dip")
	assert.Equal(t, analysis.TrendInsight, r.Category)
}

func TestAnalyzeTrendsSleepCorrelation(t *testing.T) {
	sleeps := []float64{4, 5, 6, 7, 8, 9}
	totals := []float64{3, 4, 5, 6, 7, 8}
	var checkins []models.CheckinRecord
	for i := range sleeps {
		c := checkinOn(i)
		c.SleepScore = fp(sleeps[i])
		c.TotalScore = totals[i]
		checkins = append(checkins, c)
	}
	r := findTrend(t, analysis.AnalyzeTrends(checkins), "sleep_score_link")
	assert.Equal(t, analysis.TrendInsight, r.Category)
	assert.Equal(t, 100, r.Confidence)
}

func TestAnalyzeTrendsSortedByConfidence(t *testing.T) {
	var checkins []models.CheckinRecord
	for i, score := range []float64{6, 7, 6.5, 7, 6.8} {
		c := checkinOn(i)
		c.Weight = 90 - float64(i)
		c.SleepScore = fp(9)
		c.TotalScore = score
		checkins = append(checkins, c)
	}
	results := analysis.AnalyzeTrends(checkins)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
	}
}
