// Package store holds the sqlx-backed repositories behind the gamification
// interfaces. Idempotency lives here, in natural keys and ON CONFLICT
// clauses, not in in-memory locks: concurrent awards for the same client
// collapse onto the same rows.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/gamification"
)

type GamificationStore struct {
	db *sqlx.DB
}

func NewGamificationStore(db *sqlx.DB) *GamificationStore {
	return &GamificationStore{db: db}
}

func (s *GamificationStore) UnlockedTypes(ctx context.Context, clientID int) (map[string]bool, error) {
	var types []string
	if err := s.db.SelectContext(ctx, &types,
		`SELECT type FROM unlocked_achievements WHERE client_id=$1`, clientID); err != nil {
		return nil, fmt.Errorf("select unlocked types: %w", err)
	}
	out := make(map[string]bool, len(types))
	for _, t := range types {
		out[t] = true
	}
	return out, nil
}

// SaveUnlock inserts the unlock, reporting false when the (client, type) row
// already existed.
func (s *GamificationStore) SaveUnlock(ctx context.Context, clientID int, a gamification.UnlockedAchievement) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO unlocked_achievements (client_id, type, name, description, points_awarded, unlocked_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (client_id, type) DO NOTHING`,
		clientID, a.Type, a.Name, a.Description, a.Points, a.UnlockedAt)
	if err != nil {
		return false, fmt.Errorf("insert unlock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *GamificationStore) ListUnlocked(ctx context.Context, clientID int) ([]gamification.UnlockedAchievement, error) {
	var out []gamification.UnlockedAchievement
	if err := s.db.SelectContext(ctx, &out,
		`SELECT type, name, description, points_awarded, unlocked_at
		 FROM unlocked_achievements WHERE client_id=$1 ORDER BY unlocked_at DESC`, clientID); err != nil {
		return nil, fmt.Errorf("select unlocked achievements: %w", err)
	}
	return out, nil
}

// ErrDuplicateAward marks a point award whose natural key already exists,
// e.g. a second daily-completion bonus on the same day. The award did not
// happen; the ledger is unchanged.
var ErrDuplicateAward = errors.New("point award already recorded for this day")

// ApplyPoints appends the history entry and increments the totals in one
// transaction. The partial unique index on points_history makes repeat
// daily-action awards a no-op instead of a double credit.
func (s *GamificationStore) ApplyPoints(
	ctx context.Context,
	clientID int,
	amount int,
	category gamification.Category,
	entry gamification.HistoryEntry,
) (gamification.PointsLedgerEntry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO points_history (id, client_id, local_date, amount, action_type, description, created_at)
		 VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		 ON CONFLICT DO NOTHING`,
		entry.ID, clientID, entry.Date, amount, entry.ActionType, entry.Description, entry.Date)
	if err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("insert history entry: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("rows affected: %w", err)
	}
	if inserted == 0 {
		return gamification.PointsLedgerEntry{}, ErrDuplicateAward
	}

	var dietAmt, consAmt, achAmt int
	switch category {
	case gamification.CategoryDiet:
		dietAmt = amount
	case gamification.CategoryConsistency:
		consAmt = amount
	case gamification.CategoryAchievements:
		achAmt = amount
	}

	var ledger ledgerRow
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO points_ledger (client_id, total_points, diet_points, consistency_points, achievement_points, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (client_id) DO UPDATE SET
		   total_points = points_ledger.total_points + EXCLUDED.total_points,
		   diet_points = points_ledger.diet_points + EXCLUDED.diet_points,
		   consistency_points = points_ledger.consistency_points + EXCLUDED.consistency_points,
		   achievement_points = points_ledger.achievement_points + EXCLUDED.achievement_points,
		   updated_at = NOW()
		 RETURNING client_id, total_points, diet_points, consistency_points, achievement_points, current_streak, longest_streak`,
		clientID, amount, dietAmt, consAmt, achAmt).StructScan(&ledger)
	if err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("upsert ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("commit: %w", err)
	}
	return ledger.toEntry(), nil
}

func (s *GamificationStore) SaveStreaks(ctx context.Context, clientID, current, longest int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO points_ledger (client_id, current_streak, longest_streak, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (client_id) DO UPDATE SET
		   current_streak = EXCLUDED.current_streak,
		   longest_streak = GREATEST(points_ledger.longest_streak, EXCLUDED.longest_streak),
		   updated_at = NOW()`,
		clientID, current, longest)
	if err != nil {
		return fmt.Errorf("upsert streaks: %w", err)
	}
	return nil
}

func (s *GamificationStore) Ledger(ctx context.Context, clientID int) (gamification.PointsLedgerEntry, error) {
	var ledger ledgerRow
	err := s.db.GetContext(ctx, &ledger,
		`SELECT client_id, total_points, diet_points, consistency_points, achievement_points, current_streak, longest_streak
		 FROM points_ledger WHERE client_id=$1`, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		// fresh client, everything zero
		return gamification.PointsLedgerEntry{
			ClientID:         clientID,
			PointsByCategory: map[gamification.Category]int{},
		}, nil
	}
	if err != nil {
		return gamification.PointsLedgerEntry{}, fmt.Errorf("select ledger: %w", err)
	}
	return ledger.toEntry(), nil
}

func (s *GamificationStore) History(ctx context.Context, clientID int, limit int) ([]gamification.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []gamification.HistoryEntry
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, client_id, amount, action_type, description, created_at
		 FROM points_history WHERE client_id=$1 ORDER BY created_at DESC LIMIT $2`,
		clientID, limit); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	return out, nil
}

type ledgerRow struct {
	ClientID          int `db:"client_id"`
	TotalPoints       int `db:"total_points"`
	DietPoints        int `db:"diet_points"`
	ConsistencyPoints int `db:"consistency_points"`
	AchievementPoints int `db:"achievement_points"`
	CurrentStreak     int `db:"current_streak"`
	LongestStreak     int `db:"longest_streak"`
}

func (r ledgerRow) toEntry() gamification.PointsLedgerEntry {
	return gamification.PointsLedgerEntry{
		ClientID:    r.ClientID,
		TotalPoints: r.TotalPoints,
		PointsByCategory: map[gamification.Category]int{
			gamification.CategoryDiet:         r.DietPoints,
			gamification.CategoryConsistency:  r.ConsistencyPoints,
			gamification.CategoryAchievements: r.AchievementPoints,
		},
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
	}
}
