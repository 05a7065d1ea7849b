package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS clients (
    id SERIAL PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    first_name TEXT,
    last_name TEXT,
    goal TEXT,
    start_date DATE,
    is_coach BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS checkins (
    id SERIAL PRIMARY KEY,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    local_date DATE NOT NULL DEFAULT CURRENT_DATE,
    weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    workout_score DOUBLE PRECISION CHECK (workout_score BETWEEN 0 AND 10),
    cardio_score DOUBLE PRECISION CHECK (cardio_score BETWEEN 0 AND 10),
    sleep_score DOUBLE PRECISION CHECK (sleep_score BETWEEN 0 AND 10),
    water_score DOUBLE PRECISION CHECK (water_score BETWEEN 0 AND 10),
    stress_score DOUBLE PRECISION CHECK (stress_score BETWEEN 0 AND 10),
    libido_score DOUBLE PRECISION CHECK (libido_score BETWEEN 0 AND 10),
    total_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    difficulties TEXT NOT NULL DEFAULT '',
    goal TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(client_id, local_date)
);

CREATE TABLE IF NOT EXISTS body_composition (
    id SERIAL PRIMARY KEY,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    local_date DATE NOT NULL DEFAULT CURRENT_DATE,
    body_fat_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    weight DOUBLE PRECISION NOT NULL DEFAULT 0,
    lean_mass DOUBLE PRECISION NOT NULL DEFAULT 0,
    fat_mass DOUBLE PRECISION NOT NULL DEFAULT 0,
    bmi DOUBLE PRECISION NOT NULL DEFAULT 0,
    bmr DOUBLE PRECISION NOT NULL DEFAULT 0,
    classification TEXT NOT NULL DEFAULT '',
    UNIQUE(client_id, local_date)
);

CREATE TABLE IF NOT EXISTS daily_completions (
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    local_date DATE NOT NULL DEFAULT CURRENT_DATE,
    completion_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    items_tracked INTEGER NOT NULL DEFAULT 0,
    protein_consumed DOUBLE PRECISION NOT NULL DEFAULT 0,
    protein_target DOUBLE PRECISION NOT NULL DEFAULT 0,
    carbs_consumed DOUBLE PRECISION NOT NULL DEFAULT 0,
    carbs_target DOUBLE PRECISION NOT NULL DEFAULT 0,
    fat_consumed DOUBLE PRECISION NOT NULL DEFAULT 0,
    fat_target DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (client_id, local_date)
);

CREATE TABLE IF NOT EXISTS unlocked_achievements (
    id SERIAL PRIMARY KEY,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    points_awarded INTEGER NOT NULL DEFAULT 0,
    unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE(client_id, type)
);

CREATE TABLE IF NOT EXISTS points_ledger (
    client_id INTEGER PRIMARY KEY REFERENCES clients(id) ON DELETE CASCADE,
    total_points INTEGER NOT NULL DEFAULT 0,
    diet_points INTEGER NOT NULL DEFAULT 0,
    consistency_points INTEGER NOT NULL DEFAULT 0,
    achievement_points INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS points_history (
    id UUID PRIMARY KEY,
    client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    local_date DATE NOT NULL DEFAULT CURRENT_DATE,
    amount INTEGER NOT NULL,
    action_type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- one daily bonus per client per day; other actions may repeat freely
CREATE UNIQUE INDEX IF NOT EXISTS points_history_daily_actions
    ON points_history (client_id, action_type, local_date)
    WHERE action_type IN ('day_completed', 'streak_bonus');
`
	_, err := db.ExecContext(context.Background(), schema)
	if err != nil {
		return err
	}

	alters := `
DO $$ BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='clients' AND column_name='start_date'
    ) THEN
        ALTER TABLE clients ADD COLUMN start_date DATE;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='clients' AND column_name='is_coach'
    ) THEN
        ALTER TABLE clients ADD COLUMN is_coach BOOLEAN NOT NULL DEFAULT false;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='checkins' AND column_name='libido_score'
    ) THEN
        ALTER TABLE checkins ADD COLUMN libido_score DOUBLE PRECISION CHECK (libido_score BETWEEN 0 AND 10);
    END IF;
END $$;`
	_, err = db.ExecContext(context.Background(), alters)
	return err
}
