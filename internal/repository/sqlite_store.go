package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mingus-outlook/internal/domain"
)

// SQLiteStore implementa los tres repositorios sobre un archivo SQLite. Pensado para
// desarrollo local, seeds y tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre o crea la base en dbPath y aplica el schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Un solo writer evita SQLITE_BUSY bajo generacion concurrente.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                  TEXT PRIMARY KEY,
		email               TEXT NOT NULL DEFAULT '',
		first_name          TEXT NOT NULL DEFAULT '',
		city                TEXT NOT NULL DEFAULT '',
		state               TEXT NOT NULL DEFAULT '',
		relationship_status TEXT NOT NULL DEFAULT '',
		tier                TEXT NOT NULL DEFAULT '',
		signup_at           TEXT NOT NULL,
		last_active_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_users_last_active ON users(last_active_at);

	CREATE TABLE IF NOT EXISTS activity_snapshots (
		user_id            TEXT PRIMARY KEY REFERENCES users(id),
		mood_score         INTEGER NOT NULL DEFAULT 0,
		exercise_minutes   INTEGER NOT NULL DEFAULT 0,
		meditation_minutes INTEGER NOT NULL DEFAULT 0,
		financial_score    INTEGER NOT NULL DEFAULT 0,
		wellness_score     INTEGER NOT NULL DEFAULT 0,
		relationship_score INTEGER NOT NULL DEFAULT 0,
		career_score       INTEGER NOT NULL DEFAULT 0,
		streak_count       INTEGER NOT NULL DEFAULT 0,
		last_active_date   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_outlooks (
		id                    TEXT PRIMARY KEY,
		user_id               TEXT NOT NULL,
		outlook_date          TEXT NOT NULL,
		tier                  TEXT NOT NULL,
		balance_score         INTEGER NOT NULL,
		weights               TEXT NOT NULL,
		primary_insight       TEXT NOT NULL,
		insight_template_id   TEXT NOT NULL DEFAULT '',
		quick_actions         TEXT NOT NULL,
		encouragement_message TEXT NOT NULL,
		surprise_element      TEXT NOT NULL,
		tomorrow_teaser       TEXT NOT NULL,
		cultural_relevance    INTEGER NOT NULL DEFAULT 0,
		city_specific         INTEGER NOT NULL DEFAULT 0,
		generated_at          TEXT NOT NULL,
		UNIQUE (user_id, outlook_date)
	);
	CREATE INDEX IF NOT EXISTS idx_outlooks_user_date ON daily_outlooks(user_id, outlook_date DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifica que la base responde.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- perfiles ---

// UpsertProfile crea o reemplaza un perfil; lo usan seeds y tests.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p domain.UserProfile) error {
	var lastActive any
	if p.LastActiveAt != nil {
		lastActive = formatTime(*p.LastActiveAt)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, city, state, relationship_status, tier, signup_at, last_active_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			city = excluded.city,
			state = excluded.state,
			relationship_status = excluded.relationship_status,
			tier = excluded.tier,
			signup_at = excluded.signup_at,
			last_active_at = excluded.last_active_at
	`, p.ID, p.Email, p.FirstName, p.Location.City, p.Location.State,
		string(p.RelationshipStatus), string(p.Tier), formatTime(p.SignupAt), lastActive)
	return err
}

func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (domain.UserProfile, error) {
	var (
		p                    domain.UserProfile
		status, tier, signup string
		lastActive           sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, city, state, relationship_status, tier, signup_at, last_active_at
		FROM users
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Email, &p.FirstName, &p.Location.City, &p.Location.State, &status, &tier, &signup, &lastActive)
	if err != nil {
		return domain.UserProfile{}, mapError(err)
	}
	p.RelationshipStatus = domain.RelationshipStatus(status)
	p.Tier = domain.Tier(tier)
	p.SignupAt = parseTime(signup)
	if lastActive.Valid && lastActive.String != "" {
		t := parseTime(lastActive.String)
		p.LastActiveAt = &t
	}
	return p, nil
}

func (s *SQLiteStore) ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM users
		WHERE last_active_at IS NOT NULL AND last_active_at >= ?
		ORDER BY id
	`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- actividad ---

func (s *SQLiteStore) UpsertActivity(ctx context.Context, a domain.ActivitySnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_snapshots (user_id, mood_score, exercise_minutes, meditation_minutes,
			financial_score, wellness_score, relationship_score, career_score, streak_count, last_active_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			mood_score = excluded.mood_score,
			exercise_minutes = excluded.exercise_minutes,
			meditation_minutes = excluded.meditation_minutes,
			financial_score = excluded.financial_score,
			wellness_score = excluded.wellness_score,
			relationship_score = excluded.relationship_score,
			career_score = excluded.career_score,
			streak_count = excluded.streak_count,
			last_active_date = excluded.last_active_date
	`, a.UserID, a.MoodScore, a.ExerciseMinutes, a.MeditationMinutes, a.FinancialScore,
		a.WellnessScore, a.RelationshipScore, a.CareerScore, a.StreakCount, formatTime(a.LastActiveDate))
	return err
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, userID string) (domain.ActivitySnapshot, error) {
	var (
		a          domain.ActivitySnapshot
		lastActive string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, mood_score, exercise_minutes, meditation_minutes, financial_score,
			wellness_score, relationship_score, career_score, streak_count, last_active_date
		FROM activity_snapshots
		WHERE user_id = ?
	`, userID).Scan(&a.UserID, &a.MoodScore, &a.ExerciseMinutes, &a.MeditationMinutes, &a.FinancialScore,
		&a.WellnessScore, &a.RelationshipScore, &a.CareerScore, &a.StreakCount, &lastActive)
	if err != nil {
		return domain.ActivitySnapshot{}, mapError(err)
	}
	a.LastActiveDate = parseTime(lastActive)
	return a, nil
}

// --- outlooks ---

func (s *SQLiteStore) Find(ctx context.Context, userID, date string) (domain.DailyOutlook, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+outlookColumns+`
		FROM daily_outlooks
		WHERE user_id = ? AND outlook_date = ?`, userID, date)
	return scanSQLiteOutlook(row)
}

func (s *SQLiteStore) Create(ctx context.Context, o domain.DailyOutlook) error {
	args, err := sqliteOutlookArgs(o)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO daily_outlooks (`+outlookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, outlook_date) DO NOTHING`, args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicateKey
	}
	return nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, o domain.DailyOutlook) error {
	args, err := sqliteOutlookArgs(o)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO daily_outlooks (`+outlookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, outlook_date) DO UPDATE SET
			id = excluded.id,
			tier = excluded.tier,
			balance_score = excluded.balance_score,
			weights = excluded.weights,
			primary_insight = excluded.primary_insight,
			insight_template_id = excluded.insight_template_id,
			quick_actions = excluded.quick_actions,
			encouragement_message = excluded.encouragement_message,
			surprise_element = excluded.surprise_element,
			tomorrow_teaser = excluded.tomorrow_teaser,
			cultural_relevance = excluded.cultural_relevance,
			city_specific = excluded.city_specific,
			generated_at = excluded.generated_at`, args...)
	return mapError(err)
}

func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.DailyOutlook, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+outlookColumns+`
		FROM daily_outlooks
		WHERE user_id = ?
		ORDER BY outlook_date DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlooks := []domain.DailyOutlook{}
	for rows.Next() {
		o, err := scanSQLiteOutlook(rows)
		if err != nil {
			return nil, err
		}
		outlooks = append(outlooks, o)
	}
	return outlooks, rows.Err()
}

func scanSQLiteOutlook(row rowScanner) (domain.DailyOutlook, error) {
	var (
		o                     domain.DailyOutlook
		tier, generatedAt     string
		weightsRaw, actionRaw string
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Date,
		&tier,
		&o.BalanceScore,
		&weightsRaw,
		&o.PrimaryInsight,
		&o.InsightTemplateID,
		&actionRaw,
		&o.EncouragementMessage,
		&o.SurpriseElement,
		&o.TomorrowTeaser,
		&o.CulturalRelevance,
		&o.CitySpecific,
		&generatedAt,
	)
	if err != nil {
		return domain.DailyOutlook{}, mapError(err)
	}
	o.Tier = domain.Tier(tier)
	o.GeneratedAt = parseTime(generatedAt)
	if err := decodeOutlookJSON(&o, []byte(weightsRaw), []byte(actionRaw)); err != nil {
		return domain.DailyOutlook{}, err
	}
	return o, nil
}

func sqliteOutlookArgs(o domain.DailyOutlook) ([]any, error) {
	if _, err := parseDay(o.Date); err != nil {
		return nil, err
	}
	weightsRaw, actionRaw, err := encodeOutlookJSON(o)
	if err != nil {
		return nil, err
	}
	return []any{
		o.ID,
		o.UserID,
		o.Date,
		string(o.Tier),
		o.BalanceScore,
		string(weightsRaw),
		o.PrimaryInsight,
		o.InsightTemplateID,
		string(actionRaw),
		o.EncouragementMessage,
		o.SurpriseElement,
		o.TomorrowTeaser,
		o.CulturalRelevance,
		o.CitySpecific,
		formatTime(o.GeneratedAt),
	}, nil
}

// Ancho fijo en UTC para que la comparacion lexica de SQLite respete el orden temporal.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
