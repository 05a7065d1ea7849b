// Package gamification evaluates achievement unlocks and maintains the
// per-client points ledger. The evaluation itself is pure; all state changes
// go through the store interfaces so persistence stays at the boundary.
package gamification

import (
	"context"
	"fmt"
	"time"

	"coachpulse/internal/models"
	"coachpulse/internal/stats"
)

// AchievementTemplate is one row of the externally supplied achievement
// table. Templates are configuration: new achievement types are added by
// adding rows (and, for genuinely new rules, a predicate), never per client.
type AchievementTemplate struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points_awarded"`
}

type UnlockedAchievement struct {
	Type        string    `db:"type" json:"type"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Points      int       `db:"points_awarded" json:"points_awarded"`
	UnlockedAt  time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// ActivityWindow is the recent client activity an unlock rule may inspect:
// the trailing 30 days of check-ins and daily plan completions, anchored at
// Today so streak rules count backward from a fixed reference.
type ActivityWindow struct {
	Today    time.Time
	Checkins []models.CheckinRecord
	Days     []models.DailyCompletion
}

func (w ActivityWindow) day(t time.Time) (models.DailyCompletion, bool) {
	y, m, d := t.Date()
	for _, dc := range w.Days {
		dy, dm, dd := dc.Date.Date()
		if dy == y && dm == m && dd == d {
			return dc, true
		}
	}
	return models.DailyCompletion{}, false
}

func (w ActivityWindow) completedDays() []time.Time {
	var out []time.Time
	for _, dc := range w.Days {
		if dc.CompletionPercent >= 100 {
			out = append(out, dc.Date)
		}
	}
	return out
}

// predicate reports whether an achievement's unlock condition holds for the
// window.
type predicate func(w ActivityWindow) bool

func streakPredicate(n int) predicate {
	return func(w ActivityWindow) bool {
		return stats.CompletionStreakFrom(w.Today, w.completedDays(), n)
	}
}

// predicates keys unlock rules by template type. A template whose type has
// no registered predicate is skipped, so unknown rows in the config file are
// harmless.
var predicates = map[string]predicate{
	"first_meal": func(w ActivityWindow) bool {
		for _, d := range w.Days {
			if d.ItemsTracked >= 1 {
				return true
			}
		}
		return false
	},
	"day_complete": func(w ActivityWindow) bool {
		d, ok := w.day(w.Today)
		return ok && d.CompletionPercent >= 100
	},
	"week_complete": func(w ActivityWindow) bool {
		return stats.CompletionStreakFrom(w.Today, w.completedDays(), 7)
	},
	"streak_3":  streakPredicate(3),
	"streak_7":  streakPredicate(7),
	"streak_30": streakPredicate(30),
	"perfect_day": func(w ActivityWindow) bool {
		d, ok := w.day(w.Today)
		if !ok || d.CompletionPercent < 100 {
			return false
		}
		return macroHit(d.ProteinConsumed, d.ProteinTarget) &&
			macroHit(d.CarbsConsumed, d.CarbsTarget) &&
			macroHit(d.FatConsumed, d.FatTarget)
	},
}

func macroHit(consumed, target float64) bool {
	return target > 0 && consumed >= target*0.95
}

// Evaluate returns the templates newly unlocked by the window. Types already
// present in already are never re-evaluated, which keeps unlocking
// at-most-once even when the caller re-runs a window.
func Evaluate(w ActivityWindow, templates []AchievementTemplate, already map[string]bool) []UnlockedAchievement {
	var unlocked []UnlockedAchievement
	for _, tpl := range templates {
		if already[tpl.Type] {
			continue
		}
		pred, ok := predicates[tpl.Type]
		if !ok || !pred(w) {
			continue
		}
		unlocked = append(unlocked, UnlockedAchievement{
			Type:        tpl.Type,
			Name:        tpl.Name,
			Description: tpl.Description,
			Points:      tpl.Points,
			UnlockedAt:  w.Today,
		})
	}
	return unlocked
}

// AchievementStore persists unlocks. SaveUnlock must enforce uniqueness on
// (client, type) and report false when the row already existed, so two
// concurrent checks for the same client cannot double-award.
type AchievementStore interface {
	UnlockedTypes(ctx context.Context, clientID int) (map[string]bool, error)
	SaveUnlock(ctx context.Context, clientID int, a UnlockedAchievement) (bool, error)
	ListUnlocked(ctx context.Context, clientID int) ([]UnlockedAchievement, error)
}

// Engine ties template evaluation to persistence and point awards.
type Engine struct {
	templates []AchievementTemplate
	store     AchievementStore
	ledger    *Ledger
}

func NewEngine(templates []AchievementTemplate, store AchievementStore, ledger *Ledger) *Engine {
	return &Engine{templates: templates, store: store, ledger: ledger}
}

// CheckAndUnlock evaluates every not-yet-unlocked template against the
// window, persists the new unlocks and awards their points. Storage failures
// are returned to the caller; nothing is retried here.
func (e *Engine) CheckAndUnlock(ctx context.Context, clientID int, w ActivityWindow) ([]UnlockedAchievement, error) {
	already, err := e.store.UnlockedTypes(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load unlocked types: %w", err)
	}

	var unlocked []UnlockedAchievement
	for _, a := range Evaluate(w, e.templates, already) {
		inserted, err := e.store.SaveUnlock(ctx, clientID, a)
		if err != nil {
			return unlocked, fmt.Errorf("save unlock %s: %w", a.Type, err)
		}
		if !inserted {
			// lost the race to a concurrent check; no points awarded here
			continue
		}
		if _, err := e.ledger.AddPoints(ctx, clientID, a.Points, ActionAchievementUnlocked,
			"Achievement unlocked: "+a.Name); err != nil {
			return unlocked, fmt.Errorf("award points for %s: %w", a.Type, err)
		}
		unlocked = append(unlocked, a)
	}
	return unlocked, nil
}

// Unlocked lists the client's unlocked achievements, newest first.
func (e *Engine) Unlocked(ctx context.Context, clientID int) ([]UnlockedAchievement, error) {
	return e.store.ListUnlocked(ctx, clientID)
}
