package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/models"
)

// RecordStore fetches the record windows the analyzers consume. Reads only;
// check-in intake goes through the handlers.
type RecordStore struct {
	db *sqlx.DB
}

func NewRecordStore(db *sqlx.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) CheckinsSince(ctx context.Context, clientID int, since time.Time) ([]models.CheckinRecord, error) {
	var out []models.CheckinRecord
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, client_id, local_date, weight, workout_score, cardio_score, sleep_score,
		        water_score, stress_score, libido_score, total_score, difficulties, goal,
		        created_at, updated_at
		 FROM checkins WHERE client_id=$1 AND local_date >= $2 ORDER BY local_date`,
		clientID, since); err != nil {
		return nil, fmt.Errorf("select checkins: %w", err)
	}
	return out, nil
}

func (s *RecordStore) CheckinDates(ctx context.Context, clientID int) ([]time.Time, error) {
	var out []time.Time
	if err := s.db.SelectContext(ctx, &out,
		`SELECT local_date FROM checkins WHERE client_id=$1 ORDER BY local_date DESC`, clientID); err != nil {
		return nil, fmt.Errorf("select checkin dates: %w", err)
	}
	return out, nil
}

func (s *RecordStore) BodyCompositionSince(ctx context.Context, clientID int, since time.Time) ([]models.BodyCompositionRecord, error) {
	var out []models.BodyCompositionRecord
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, client_id, local_date, body_fat_percent, weight, lean_mass, fat_mass, bmi, bmr, classification
		 FROM body_composition WHERE client_id=$1 AND local_date >= $2 ORDER BY local_date`,
		clientID, since); err != nil {
		return nil, fmt.Errorf("select body composition: %w", err)
	}
	return out, nil
}

func (s *RecordStore) DailyCompletionsSince(ctx context.Context, clientID int, since time.Time) ([]models.DailyCompletion, error) {
	var out []models.DailyCompletion
	if err := s.db.SelectContext(ctx, &out,
		`SELECT client_id, local_date, completion_percent, items_tracked,
		        protein_consumed, protein_target, carbs_consumed, carbs_target, fat_consumed, fat_target
		 FROM daily_completions WHERE client_id=$1 AND local_date >= $2 ORDER BY local_date`,
		clientID, since); err != nil {
		return nil, fmt.Errorf("select daily completions: %w", err)
	}
	return out, nil
}
