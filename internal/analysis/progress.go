package analysis

import (
	"context"
	"sort"

	"coachpulse/internal/models"
	"coachpulse/internal/stats"
)

// Provider is an optional external advisory backend. Implementations must
// fail with an error rather than panic; the scorer degrades to the local
// rule engine on any failure.
type Provider interface {
	Analyze(ctx context.Context, checkins []models.CheckinRecord) (AnalysisResult, error)
}

// Scorer produces the coach-style progress report. A nil provider means the
// local rules are always used.
type Scorer struct {
	provider Provider
}

func NewScorer(provider Provider) *Scorer {
	return &Scorer{provider: provider}
}

// Analyze delegates to the advisory provider when one is configured and it
// succeeds; every failure path falls back silently to the local rule-based
// report, so the caller always gets a valid result.
func (s *Scorer) Analyze(ctx context.Context, checkins []models.CheckinRecord) AnalysisResult {
	if s.provider != nil {
		if res, err := s.provider.Analyze(ctx, checkins); err == nil {
			return res
		}
	}
	return AnalyzeProgress(checkins)
}

// averages holds the per-category window means the rule table evaluates.
// A value of -1 marks a category with no reported scores at all.
type averages struct {
	workout, cardio, sleep, water, stress, libido float64
	total                                         float64
	weightDelta                                   float64 // newest minus oldest measured weight
	hasWeight                                     bool
}

const noData = -1

// progressRule is one row of the report rule table: when the predicate holds
// for the window averages, the insight is added to the report. The table is
// ordered, so paired warning/suggestion rows stay adjacent.
type progressRule struct {
	when    func(a averages) bool
	insight Insight
}

var progressRules = []progressRule{
	{
		when: func(a averages) bool { return a.hasWeight && a.weightDelta < -0.5 },
		insight: Insight{Kind: InsightStrength, Title: "Losing weight steadily",
			Description: "Body weight has come down since the start of this window.",
			Priority:    PriorityHigh},
	},
	{
		when: func(a averages) bool { return a.hasWeight && a.weightDelta > 2 },
		insight: Insight{Kind: InsightWarning, Title: "Weight gain over the window",
			Description:    "Body weight is up more than 2 kg since the start of this window.",
			Recommendation: "Go over the food log together at the next session and find where the extra intake hides.",
			Priority:       PriorityHigh},
	},
	{
		when: func(a averages) bool { return a.workout >= 8 },
		insight: Insight{Kind: InsightStrength, Title: "Training is dialed in",
			Description: "Workout scores average 8 or above across the window.",
			Priority:    PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.workout != noData && a.workout < 5 },
		insight: Insight{Kind: InsightWarning, Title: "Training adherence is low",
			Description: "Workout scores average below 5 across the window.",
			Priority:    PriorityHigh},
	},
	{
		when: func(a averages) bool { return a.workout != noData && a.workout < 5 },
		insight: Insight{Kind: InsightSuggestion, Title: "Shrink the workouts, keep the schedule",
			Description:    "Missed sessions hurt more than short ones.",
			Recommendation: "Cut planned sessions to 30 minutes until three weeks in a row are hit.",
			Priority:       PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.cardio != noData && a.cardio < 5 },
		insight: Insight{Kind: InsightSuggestion, Title: "Add easy cardio",
			Description:    "Cardio scores average below 5 across the window.",
			Recommendation: "Two brisk 20-minute walks per week are enough to move this number.",
			Priority:       PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.sleep >= 8 },
		insight: Insight{Kind: InsightStrength, Title: "Sleep is a strong point",
			Description: "Sleep scores average 8 or above across the window.",
			Priority:    PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.sleep != noData && a.sleep < 6 },
		insight: Insight{Kind: InsightWarning, Title: "Sleep is undermining recovery",
			Description: "Sleep scores average below 6 across the window.",
			Priority:    PriorityHigh},
	},
	{
		when: func(a averages) bool { return a.sleep != noData && a.sleep < 6 },
		insight: Insight{Kind: InsightSuggestion, Title: "Fix the bedtime first",
			Description:    "A consistent lights-out time is the highest-leverage sleep change.",
			Recommendation: "Pick a bedtime and defend it for two weeks before changing anything else.",
			Priority:       PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.water != noData && a.water < 6 },
		insight: Insight{Kind: InsightSuggestion, Title: "Hydration needs a nudge",
			Description:    "Water scores average below 6 across the window.",
			Recommendation: "Front-load water: half a liter with each main meal.",
			Priority:       PriorityLow},
	},
	{
		when: func(a averages) bool { return a.stress != noData && a.stress < 5 },
		insight: Insight{Kind: InsightWarning, Title: "Stress is running high",
			Description:    "Stress management scores average below 5 across the window.",
			Recommendation: "Identify the one recurring stressor that is actually changeable and start there.",
			Priority:       PriorityMedium},
	},
	{
		when: func(a averages) bool { return a.libido != noData && a.libido < 5 },
		insight: Insight{Kind: InsightSuggestion, Title: "Low energy signals",
			Description:    "Libido scores average below 5, often a marker of under-recovery or under-eating.",
			Recommendation: "Check total calories and sleep before blaming training volume.",
			Priority:       PriorityLow},
	},
	{
		when: func(a averages) bool { return a.total >= 8 },
		insight: Insight{Kind: InsightStrength, Title: "Excellent overall compliance",
			Description: "Overall scores average 8 or above across the window.",
			Priority:    PriorityHigh},
	},
}

// AnalyzeProgress builds the local rule-based report for a check-in window.
// An empty window yields an empty stable report with score 0.
func AnalyzeProgress(checkins []models.CheckinRecord) AnalysisResult {
	result := AnalysisResult{
		Strengths:   []Insight{},
		Warnings:    []Insight{},
		Suggestions: []Insight{},
		Goals:       []Insight{},
		Trend:       TrendStable,
	}
	if len(checkins) == 0 {
		return result
	}

	sorted := make([]models.CheckinRecord, len(checkins))
	copy(sorted, checkins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	avgs := windowAverages(sorted)
	for _, rule := range progressRules {
		if rule.when(avgs) {
			result = appendInsight(result, rule.insight)
		}
	}
	for _, g := range goalInsights(avgs) {
		result = appendInsight(result, g)
	}

	result.OverallScore = avgs.total
	result.Trend = recentTrend(sorted)
	return result
}

func appendInsight(r AnalysisResult, in Insight) AnalysisResult {
	switch in.Kind {
	case InsightStrength:
		r.Strengths = append(r.Strengths, in)
	case InsightWarning:
		r.Warnings = append(r.Warnings, in)
	case InsightSuggestion:
		r.Suggestions = append(r.Suggestions, in)
	case InsightGoal:
		r.Goals = append(r.Goals, in)
	}
	return r
}

func windowAverages(sorted []models.CheckinRecord) averages {
	categoryAvg := func(extract func(models.CheckinRecord) *float64) float64 {
		var values []float64
		for _, c := range sorted {
			if v := extract(c); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			return noData
		}
		return stats.Average(values)
	}

	a := averages{
		workout: categoryAvg(func(c models.CheckinRecord) *float64 { return c.WorkoutScore }),
		cardio:  categoryAvg(func(c models.CheckinRecord) *float64 { return c.CardioScore }),
		sleep:   categoryAvg(func(c models.CheckinRecord) *float64 { return c.SleepScore }),
		water:   categoryAvg(func(c models.CheckinRecord) *float64 { return c.WaterScore }),
		stress:  categoryAvg(func(c models.CheckinRecord) *float64 { return c.StressScore }),
		libido:  categoryAvg(func(c models.CheckinRecord) *float64 { return c.LibidoScore }),
	}

	totals := make([]float64, 0, len(sorted))
	for _, c := range sorted {
		totals = append(totals, c.TotalScore)
	}
	a.total = stats.Average(totals)

	var weights []float64
	for _, c := range sorted {
		if c.Weight > 0 {
			weights = append(weights, c.Weight)
		}
	}
	if len(weights) >= 2 {
		a.hasWeight = true
		a.weightDelta = weights[len(weights)-1] - weights[0]
	}
	return a
}

// recentTrend compares the newest total score to the one three check-ins
// back. Deltas within half a point count as stable, as does any window with
// fewer than three records.
func recentTrend(sorted []models.CheckinRecord) Trend {
	if len(sorted) < 3 {
		return TrendStable
	}
	last3 := sorted[len(sorted)-3:]
	delta := last3[2].TotalScore - last3[0].TotalScore
	switch {
	case delta > 0.5:
		return TrendImproving
	case delta < -0.5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// goalInsights emits the fixed goal set: a body-composition strategy chosen
// by the weight delta, gated training and sleep goals, and two unconditional
// ones. Deterministic given the same averages.
func goalInsights(a averages) []Insight {
	goals := make([]Insight, 0, 5)

	bodyComp := Insight{Kind: InsightGoal, Priority: PriorityHigh}
	switch {
	case a.hasWeight && a.weightDelta <= -0.5:
		bodyComp.Title = "Keep the current deficit"
		bodyComp.Description = "Weight is coming down; hold the plan steady and protect protein intake."
	case a.hasWeight && a.weightDelta >= 2:
		bodyComp.Title = "Tighten up energy balance"
		bodyComp.Description = "Reverse the recent gain: revisit portions and limit untracked extras for two weeks."
	default:
		bodyComp.Title = "Focus on recomposition"
		bodyComp.Description = "Weight is stable; push training quality and protein to trade fat for lean mass."
	}
	goals = append(goals, bodyComp)

	if a.workout == noData || a.workout < 8 {
		goals = append(goals, Insight{
			Kind: InsightGoal, Priority: PriorityMedium,
			Title:       "Hit every planned session",
			Description: "Bring training adherence to a consistent 8+ before adding volume.",
		})
	}
	if a.sleep == noData || a.sleep < 8 {
		goals = append(goals, Insight{
			Kind: InsightGoal, Priority: PriorityMedium,
			Title:       "Raise the sleep floor",
			Description: "Target a sleep score of 8: fixed bedtime, dark room, no late caffeine.",
		})
	}
	goals = append(goals,
		Insight{
			Kind: InsightGoal, Priority: PriorityMedium,
			Title:       "Protein at every meal",
			Description: "Anchor each meal around a palm-sized protein source.",
		},
		Insight{
			Kind: InsightGoal, Priority: PriorityLow,
			Title:       "Check in every week",
			Description: "The plan only adapts as fast as the data comes in.",
		},
	)
	return goals
}
