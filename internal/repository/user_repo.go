package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mingus-outlook/internal/domain"
)

// UserRepository expone los perfiles (de solo lectura) que administra el sistema de cuentas.
type UserRepository interface {
	GetProfile(ctx context.Context, id string) (domain.UserProfile, error)
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) GetProfile(ctx context.Context, id string) (domain.UserProfile, error) {
	const query = `
		SELECT id, email, first_name, city, state, relationship_status, tier, signup_at, last_active_at
		FROM users
		WHERE id = $1
	`
	var (
		p            domain.UserProfile
		status, tier string
		lastActive   *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.Location.City,
		&p.Location.State,
		&status,
		&tier,
		&p.SignupAt,
		&lastActive,
	)
	if err != nil {
		return domain.UserProfile{}, mapError(err)
	}
	p.RelationshipStatus = domain.RelationshipStatus(status)
	p.Tier = domain.Tier(tier)
	p.SignupAt = p.SignupAt.UTC()
	if lastActive != nil {
		t := lastActive.UTC()
		p.LastActiveAt = &t
	}
	return p, nil
}

func (r *PgUserRepository) ListActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	const query = `
		SELECT id
		FROM users
		WHERE last_active_at >= $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, since)
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
