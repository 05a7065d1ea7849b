// Package analysis turns a client's check-in history into trend results and
// a coach-style progress report. Everything here is pure: callers fetch the
// records, the analyzers only compute.
package analysis

// TrendCategory classifies a trend result for display.
type TrendCategory string

const (
	TrendPositive TrendCategory = "positive"
	TrendNegative TrendCategory = "negative"
	TrendNeutral  TrendCategory = "neutral"
	TrendInsight  TrendCategory = "insight"
)

// TrendResult is a single human-readable finding about the check-in window.
type TrendResult struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       TrendCategory `json:"category"`
	Confidence     int           `json:"confidence"` // 0-100
	Recommendation string        `json:"recommendation,omitempty"`
}

// InsightKind buckets a progress insight into the coach report sections.
type InsightKind string

const (
	InsightStrength   InsightKind = "strength"
	InsightWarning    InsightKind = "warning"
	InsightSuggestion InsightKind = "suggestion"
	InsightGoal       InsightKind = "goal"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Insight struct {
	Kind           InsightKind `json:"kind"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation,omitempty"`
	Priority       Priority    `json:"priority"`
}

// Trend is the coarse direction label of the recent check-ins.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// AnalysisResult is the full coach-style report for a check-in window.
type AnalysisResult struct {
	Strengths    []Insight `json:"strengths"`
	Warnings     []Insight `json:"warnings"`
	Suggestions  []Insight `json:"suggestions"`
	Goals        []Insight `json:"goals"`
	OverallScore float64   `json:"overall_score"`
	Trend        Trend     `json:"trend"`
}
