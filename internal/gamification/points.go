package gamification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coachpulse/internal/stats"
)

// Category is one of the three point buckets.
type Category string

const (
	CategoryDiet         Category = "diet"
	CategoryConsistency  Category = "consistency"
	CategoryAchievements Category = "achievements"
)

// Well-known action types. Any other diet-style action (meal_consumed,
// day_completed, ...) routes to the diet bucket.
const (
	ActionMealConsumed        = "meal_consumed"
	ActionDayCompleted        = "day_completed"
	ActionStreakBonus         = "streak_bonus"
	ActionAchievementUnlocked = "achievement_unlocked"
)

// CategoryForAction routes an action type into exactly one bucket.
func CategoryForAction(actionType string) Category {
	switch {
	case actionType == ActionAchievementUnlocked:
		return CategoryAchievements
	case strings.Contains(actionType, "streak"):
		return CategoryConsistency
	default:
		return CategoryDiet
	}
}

// Level derives the level from total points: fixed thresholds up to 1500,
// then one level per 500 points. Monotonic non-decreasing.
func Level(totalPoints int) int {
	thresholds := []int{0, 100, 300, 600, 1000, 1500}
	if totalPoints >= 1500 {
		return 6 + (totalPoints-1500)/500
	}
	level := 1
	for i, t := range thresholds {
		if totalPoints >= t {
			level = i + 1
		}
	}
	return level
}

// PointsLedgerEntry is the per-client ledger state. Level is always derived
// from TotalPoints, never stored independently.
type PointsLedgerEntry struct {
	ClientID         int              `json:"client_id"`
	TotalPoints      int              `json:"total_points"`
	PointsByCategory map[Category]int `json:"points_by_category"`
	Level            int              `json:"level"`
	CurrentStreak    int              `json:"current_streak"`
	LongestStreak    int              `json:"longest_streak"`
}

// HistoryEntry is one immutable line of the points history.
type HistoryEntry struct {
	ID          string    `db:"id" json:"id"`
	ClientID    int       `db:"client_id" json:"client_id"`
	Amount      int       `db:"amount" json:"amount"`
	ActionType  string    `db:"action_type" json:"action_type"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"created_at" json:"date"`
}

// LedgerStore persists point totals and history. ApplyPoints must increment
// the total and the given bucket and append the history entry atomically,
// returning the updated totals; natural keys on the history table are how
// callers keep one-per-day bonuses idempotent.
type LedgerStore interface {
	ApplyPoints(ctx context.Context, clientID int, amount int, category Category, entry HistoryEntry) (PointsLedgerEntry, error)
	SaveStreaks(ctx context.Context, clientID, current, longest int) error
	Ledger(ctx context.Context, clientID int) (PointsLedgerEntry, error)
	History(ctx context.Context, clientID int, limit int) ([]HistoryEntry, error)
}

type Ledger struct {
	store LedgerStore
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{store: store}
}

// AddPoints credits amount to the client, routing it into the bucket for
// actionType, and appends a history entry. The returned ledger state carries
// the recomputed level.
func (l *Ledger) AddPoints(ctx context.Context, clientID, amount int, actionType, description string) (PointsLedgerEntry, error) {
	if amount < 0 {
		return PointsLedgerEntry{}, fmt.Errorf("negative point amount %d", amount)
	}
	entry := HistoryEntry{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Amount:      amount,
		ActionType:  actionType,
		Description: description,
		Date:        time.Now().UTC(),
	}
	ledger, err := l.store.ApplyPoints(ctx, clientID, amount, CategoryForAction(actionType), entry)
	if err != nil {
		return PointsLedgerEntry{}, fmt.Errorf("apply points: %w", err)
	}
	ledger.Level = Level(ledger.TotalPoints)
	return ledger, nil
}

// UpdateStreaks recomputes the attendance streaks from the dates the client
// has any check-in at all and persists them. This is the plain attendance
// streak; the completion streak for achievements lives in the engine.
func (l *Ledger) UpdateStreaks(ctx context.Context, clientID int, checkinDates []time.Time) (current, longest int, err error) {
	current = stats.CurrentStreak(checkinDates)
	longest = stats.LongestStreak(checkinDates)
	if err := l.store.SaveStreaks(ctx, clientID, current, longest); err != nil {
		return 0, 0, fmt.Errorf("save streaks: %w", err)
	}
	return current, longest, nil
}

// Summary returns the current ledger state with the level derived.
func (l *Ledger) Summary(ctx context.Context, clientID int) (PointsLedgerEntry, error) {
	ledger, err := l.store.Ledger(ctx, clientID)
	if err != nil {
		return PointsLedgerEntry{}, fmt.Errorf("load ledger: %w", err)
	}
	ledger.Level = Level(ledger.TotalPoints)
	return ledger, nil
}

// History returns the newest limit history entries.
func (l *Ledger) History(ctx context.Context, clientID, limit int) ([]HistoryEntry, error) {
	return l.store.History(ctx, clientID, limit)
}
