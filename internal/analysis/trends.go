package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"coachpulse/internal/models"
	"coachpulse/internal/stats"
)

const minCheckinsForTrends = 3

// metricRule is one row of the per-metric pattern table: a window average of
// the metric at or above High emits the positive result, below Low the
// negative one. Averages in between emit nothing.
type metricRule struct {
	id        string
	label     string
	extract   func(models.CheckinRecord) *float64
	high      float64
	low       float64
	highConf  int
	lowConf   int
	highTitle string
	highDesc  string
	lowTitle  string
	lowDesc   string
	lowRec    string
}

var metricRules = []metricRule{
	{
		id:      "sleep_pattern",
		label:   "sleep",
		extract: func(c models.CheckinRecord) *float64 { return c.SleepScore },
		high:    8, low: 6, highConf: 82, lowConf: 78,
		highTitle: "Excellent sleep",
		highDesc:  "Sleep quality has averaged %.1f/10 over this period.",
		lowTitle:  "Sleep needs attention",
		lowDesc:   "Sleep quality has averaged only %.1f/10 over this period.",
		lowRec:    "Aim for a fixed bedtime and 7-9 hours per night; avoid screens in the last hour.",
	},
	{
		id:      "water_pattern",
		label:   "hydration",
		extract: func(c models.CheckinRecord) *float64 { return c.WaterScore },
		high:    8, low: 6, highConf: 80, lowConf: 76,
		highTitle: "Great hydration",
		highDesc:  "Water intake has averaged %.1f/10 over this period.",
		lowTitle:  "Low water intake",
		lowDesc:   "Water intake has averaged only %.1f/10 over this period.",
		lowRec:    "Keep a bottle within reach and target at least 35 ml per kg of body weight.",
	},
	{
		id:      "workout_pattern",
		label:   "training",
		extract: func(c models.CheckinRecord) *float64 { return c.WorkoutScore },
		high:    8, low: 5, highConf: 84, lowConf: 79,
		highTitle: "Strong training consistency",
		highDesc:  "Workout scores have averaged %.1f/10 over this period.",
		lowTitle:  "Training is slipping",
		lowDesc:   "Workout scores have averaged only %.1f/10 over this period.",
		lowRec:    "Schedule sessions like appointments; three shorter workouts beat one skipped long one.",
	},
	{
		id:      "stress_pattern",
		label:   "stress management",
		extract: func(c models.CheckinRecord) *float64 { return c.StressScore },
		high:    8, low: 5, highConf: 80, lowConf: 77,
		highTitle: "Stress well managed",
		highDesc:  "Stress management has averaged %.1f/10 over this period.",
		lowTitle:  "High stress levels",
		lowDesc:   "Stress management has averaged only %.1f/10 over this period.",
		lowRec:    "Build in a daily wind-down: a short walk, breathing work or ten minutes offline.",
	},
}

// AnalyzeTrends produces the ranked trend findings for a check-in window.
// The slice is fully materialized and sorted by confidence descending; with
// fewer than three check-ins a single neutral result is returned and no
// sub-analysis runs.
func AnalyzeTrends(checkins []models.CheckinRecord) []TrendResult {
	if len(checkins) < minCheckinsForTrends {
		return []TrendResult{{
			ID:          "insufficient_data",
			Title:       "Not enough data yet",
			Description: "At least 3 check-ins are needed before trends can be analyzed.",
			Category:    TrendNeutral,
			Confidence:  100,
		}}
	}

	sorted := make([]models.CheckinRecord, len(checkins))
	copy(sorted, checkins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var results []TrendResult
	if r, ok := weightTrend(sorted); ok {
		results = append(results, r)
	}
	for _, rule := range metricRules {
		if r, ok := metricPattern(sorted, rule); ok {
			results = append(results, r)
		}
	}
	if r, ok := weekdayWeekend(sorted); ok {
		results = append(results, r)
	}
	results = append(results, correlations(sorted)...)
	if r, ok := consistency(sorted); ok {
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// weightTrend compares the start and end of the last five check-ins: the mean
// of the first two usable weights against the mean of the last two. Deltas
// under 0.3 kg count as stable.
func weightTrend(sorted []models.CheckinRecord) (TrendResult, bool) {
	window := sorted
	if len(window) > 5 {
		window = window[len(window)-5:]
	}
	var weights []float64
	for _, c := range window {
		if c.Weight > 0 {
			weights = append(weights, c.Weight)
		}
	}
	if len(weights) < 3 {
		return TrendResult{}, false
	}
	first := stats.Average(weights[:2])
	last := stats.Average(weights[len(weights)-2:])
	delta := last - first

	switch {
	case math.Abs(delta) < 0.3:
		return TrendResult{
			ID:          "weight_stable",
			Title:       "Weight is stable",
			Description: fmt.Sprintf("Weight has held steady around %.1f kg across recent check-ins.", last),
			Category:    TrendNeutral,
			Confidence:  70,
		}, true
	case delta < 0:
		return TrendResult{
			ID:          "weight_decreasing",
			Title:       "Weight is trending down",
			Description: fmt.Sprintf("Weight dropped %.1f kg across recent check-ins.", -delta),
			Category:    TrendPositive,
			Confidence:  85,
		}, true
	default:
		return TrendResult{
			ID:             "weight_increasing",
			Title:          "Weight is trending up",
			Description:    fmt.Sprintf("Weight rose %.1f kg across recent check-ins.", delta),
			Category:       TrendNegative,
			Confidence:     80,
			Recommendation: "Review portion sizes and weekend eating; flag anything unusual at the next check-in.",
		}, true
	}
}

func metricPattern(sorted []models.CheckinRecord, rule metricRule) (TrendResult, bool) {
	var values []float64
	for _, c := range sorted {
		if v := rule.extract(c); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) < minCheckinsForTrends {
		return TrendResult{}, false
	}
	avg := stats.Average(values)
	switch {
	case avg >= rule.high:
		return TrendResult{
			ID:          rule.id + "_high",
			Title:       rule.highTitle,
			Description: fmt.Sprintf(rule.highDesc, avg),
			Category:    TrendPositive,
			Confidence:  rule.highConf,
		}, true
	case avg < rule.low:
		return TrendResult{
			ID:             rule.id + "_low",
			Title:          rule.lowTitle,
			Description:    fmt.Sprintf(rule.lowDesc, avg),
			Category:       TrendNegative,
			Confidence:     rule.lowConf,
			Recommendation: rule.lowRec,
		}, true
	}
	return TrendResult{}, false
}

// weekdayWeekend compares mean total scores between Mon-Fri and Sat-Sun
// check-ins. Needs at least 3 weekday and 2 weekend records; differences of
// 1.5 points or less are ignored.
func weekdayWeekend(sorted []models.CheckinRecord) (TrendResult, bool) {
	var weekday, weekend []float64
	for _, c := range sorted {
		switch c.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = append(weekend, c.TotalScore)
		default:
			weekday = append(weekday, c.TotalScore)
		}
	}
	if len(weekday) < 3 || len(weekend) < 2 {
		return TrendResult{}, false
	}
	diff := stats.Average(weekday) - stats.Average(weekend)
	if math.Abs(diff) <= 1.5 {
		return TrendResult{}, false
	}
	if diff > 0 {
		return TrendResult{
			ID:             "weekend_dip",
			Title:          "Weekends are the weak spot",
			Description:    fmt.Sprintf("Weekend scores run %.1f points below weekdays.", diff),
			Category:       TrendInsight,
			Confidence:     74,
			Recommendation: "Plan weekend meals and one anchor activity in advance to keep the routine.",
		}, true
	}
	return TrendResult{
		ID:          "weekend_better",
		Title:       "Weekends go better than weekdays",
		Description: fmt.Sprintf("Weekend scores run %.1f points above weekdays.", -diff),
		Category:    TrendInsight,
		Confidence:  74,
	}, true
}

// correlations checks whether sleep and hydration track the total score
// across the window. Only clearly positive correlations are reported, with
// confidence equal to the correlation strength.
func correlations(sorted []models.CheckinRecord) []TrendResult {
	var results []TrendResult

	var sleepX, sleepY []float64
	var waterX, waterY []float64
	for _, c := range sorted {
		if c.SleepScore != nil {
			sleepX = append(sleepX, *c.SleepScore)
			sleepY = append(sleepY, c.TotalScore)
		}
		if c.WaterScore != nil {
			waterX = append(waterX, *c.WaterScore)
			waterY = append(waterY, c.TotalScore)
		}
	}

	if r := stats.PearsonCorrelation(sleepX, sleepY); r > 0.6 {
		results = append(results, TrendResult{
			ID:          "sleep_score_link",
			Title:       "Sleep drives your results",
			Description: "Weeks with better sleep line up strongly with higher overall scores.",
			Category:    TrendInsight,
			Confidence:  int(math.Round(r * 100)),
		})
	}
	if r := stats.PearsonCorrelation(waterX, waterY); r > 0.5 {
		results = append(results, TrendResult{
			ID:          "water_score_link",
			Title:       "Hydration tracks your results",
			Description: "Days with better hydration line up with higher overall scores.",
			Category:    TrendInsight,
			Confidence:  int(math.Round(r * 100)),
		})
	}
	return results
}

func consistency(sorted []models.CheckinRecord) (TrendResult, bool) {
	totals := make([]float64, 0, len(sorted))
	for _, c := range sorted {
		totals = append(totals, c.TotalScore)
	}
	sd := stats.PopulationStdDev(totals)
	switch {
	case sd < 1.5:
		return TrendResult{
			ID:          "high_consistency",
			Title:       "Very consistent check-ins",
			Description: "Overall scores barely vary week to week; consistency is what compounds.",
			Category:    TrendPositive,
			Confidence:  88,
		}, true
	case sd > 3:
		return TrendResult{
			ID:             "high_variation",
			Title:          "Scores swing a lot",
			Description:    "Overall scores vary widely between check-ins.",
			Category:       TrendInsight,
			Confidence:     75,
			Recommendation: "Look for the pattern behind the low weeks: travel, stress or skipped planning.",
		}, true
	}
	return TrendResult{}, false
}
