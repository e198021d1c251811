package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema crea las tablas que lee y escribe el servicio. La unicidad (user_id, outlook_date)
// es la garantia de un outlook por usuario y dia.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL DEFAULT '',
	first_name          TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	state               TEXT NOT NULL DEFAULT '',
	relationship_status TEXT NOT NULL DEFAULT '',
	tier                TEXT NOT NULL DEFAULT '',
	signup_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_active_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_users_last_active ON users (last_active_at);

CREATE TABLE IF NOT EXISTS activity_snapshots (
	user_id            TEXT PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
	mood_score         INTEGER NOT NULL DEFAULT 0,
	exercise_minutes   INTEGER NOT NULL DEFAULT 0,
	meditation_minutes INTEGER NOT NULL DEFAULT 0,
	financial_score    INTEGER NOT NULL DEFAULT 0,
	wellness_score     INTEGER NOT NULL DEFAULT 0,
	relationship_score INTEGER NOT NULL DEFAULT 0,
	career_score       INTEGER NOT NULL DEFAULT 0,
	streak_count       INTEGER NOT NULL DEFAULT 0,
	last_active_date   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS daily_outlooks (
	id                    UUID PRIMARY KEY,
	user_id               TEXT NOT NULL,
	outlook_date          DATE NOT NULL,
	tier                  TEXT NOT NULL,
	balance_score         INTEGER NOT NULL,
	weights               JSONB NOT NULL,
	primary_insight       TEXT NOT NULL,
	insight_template_id   TEXT NOT NULL DEFAULT '',
	quick_actions         JSONB NOT NULL,
	encouragement_message TEXT NOT NULL,
	surprise_element      TEXT NOT NULL,
	tomorrow_teaser       TEXT NOT NULL,
	cultural_relevance    BOOLEAN NOT NULL DEFAULT false,
	city_specific         BOOLEAN NOT NULL DEFAULT false,
	generated_at          TIMESTAMPTZ NOT NULL,
	CONSTRAINT daily_outlooks_user_date_key UNIQUE (user_id, outlook_date)
);
CREATE INDEX IF NOT EXISTS idx_daily_outlooks_user_date ON daily_outlooks (user_id, outlook_date DESC);
`

// Migrate aplica Schema. Es idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
