package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mingus-outlook/internal/domain"
)

// ActivityRepository lee el snapshot agregado que mantiene el tracking de actividad.
type ActivityRepository interface {
	GetSnapshot(ctx context.Context, userID string) (domain.ActivitySnapshot, error)
}

type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) GetSnapshot(ctx context.Context, userID string) (domain.ActivitySnapshot, error) {
	const query = `
		SELECT user_id, mood_score, exercise_minutes, meditation_minutes,
		       financial_score, wellness_score, relationship_score, career_score,
		       streak_count, last_active_date
		FROM activity_snapshots
		WHERE user_id = $1
	`
	var a domain.ActivitySnapshot
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&a.UserID,
		&a.MoodScore,
		&a.ExerciseMinutes,
		&a.MeditationMinutes,
		&a.FinancialScore,
		&a.WellnessScore,
		&a.RelationshipScore,
		&a.CareerScore,
		&a.StreakCount,
		&a.LastActiveDate,
	)
	if err != nil {
		return domain.ActivitySnapshot{}, mapError(err)
	}
	a.LastActiveDate = a.LastActiveDate.UTC()
	return a, nil
}
