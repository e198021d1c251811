package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mingus-outlook/internal/domain"
)

// OutlookRepository persiste outlooks diarios con clave unica (user_id, date).
type OutlookRepository interface {
	Find(ctx context.Context, userID, date string) (domain.DailyOutlook, error)
	// Create inserta solo si no existe otro outlook para (user_id, date); si existe devuelve ErrDuplicateKey.
	Create(ctx context.Context, outlook domain.DailyOutlook) error
	// Upsert reemplaza el outlook del dia (regeneracion forzada).
	Upsert(ctx context.Context, outlook domain.DailyOutlook) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.DailyOutlook, error)
}

const defaultHistoryLimit = 7

type PgOutlookRepository struct {
	pool *pgxpool.Pool
}

func NewPgOutlookRepository(pool *pgxpool.Pool) *PgOutlookRepository {
	return &PgOutlookRepository{pool: pool}
}

const outlookColumns = `id, user_id, outlook_date, tier, balance_score, weights, primary_insight, insight_template_id,
		quick_actions, encouragement_message, surprise_element, tomorrow_teaser, cultural_relevance, city_specific, generated_at`

func (r *PgOutlookRepository) Find(ctx context.Context, userID, date string) (domain.DailyOutlook, error) {
	day, err := parseDay(date)
	if err != nil {
		return domain.DailyOutlook{}, err
	}
	query := `SELECT ` + outlookColumns + `
		FROM daily_outlooks
		WHERE user_id = $1 AND outlook_date = $2`
	return scanPgOutlook(r.pool.QueryRow(ctx, query, userID, day))
}

func (r *PgOutlookRepository) Create(ctx context.Context, outlook domain.DailyOutlook) error {
	args, err := pgOutlookArgs(outlook)
	if err != nil {
		return err
	}
	query := `INSERT INTO daily_outlooks (` + outlookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_id, outlook_date) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateKey
	}
	return nil
}

func (r *PgOutlookRepository) Upsert(ctx context.Context, outlook domain.DailyOutlook) error {
	args, err := pgOutlookArgs(outlook)
	if err != nil {
		return err
	}
	query := `INSERT INTO daily_outlooks (` + outlookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_id, outlook_date) DO UPDATE SET
			id = EXCLUDED.id,
			tier = EXCLUDED.tier,
			balance_score = EXCLUDED.balance_score,
			weights = EXCLUDED.weights,
			primary_insight = EXCLUDED.primary_insight,
			insight_template_id = EXCLUDED.insight_template_id,
			quick_actions = EXCLUDED.quick_actions,
			encouragement_message = EXCLUDED.encouragement_message,
			surprise_element = EXCLUDED.surprise_element,
			tomorrow_teaser = EXCLUDED.tomorrow_teaser,
			cultural_relevance = EXCLUDED.cultural_relevance,
			city_specific = EXCLUDED.city_specific,
			generated_at = EXCLUDED.generated_at`
	_, err = r.pool.Exec(ctx, query, args...)
	return mapError(err)
}

func (r *PgOutlookRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.DailyOutlook, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query := `SELECT ` + outlookColumns + `
		FROM daily_outlooks
		WHERE user_id = $1
		ORDER BY outlook_date DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlooks := []domain.DailyOutlook{}
	for rows.Next() {
		o, err := scanPgOutlook(rows)
		if err != nil {
			return nil, err
		}
		outlooks = append(outlooks, o)
	}
	return outlooks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgOutlook(row rowScanner) (domain.DailyOutlook, error) {
	var (
		o                     domain.DailyOutlook
		day                   time.Time
		tier                  string
		weightsRaw, actionRaw []byte
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&day,
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
		&o.GeneratedAt,
	)
	if err != nil {
		return domain.DailyOutlook{}, mapError(err)
	}
	o.Date = domain.DayKey(day.UTC())
	o.Tier = domain.Tier(tier)
	o.GeneratedAt = o.GeneratedAt.UTC()
	if err := decodeOutlookJSON(&o, weightsRaw, actionRaw); err != nil {
		return domain.DailyOutlook{}, err
	}
	return o, nil
}

func pgOutlookArgs(o domain.DailyOutlook) ([]any, error) {
	day, err := parseDay(o.Date)
	if err != nil {
		return nil, err
	}
	weightsRaw, actionRaw, err := encodeOutlookJSON(o)
	if err != nil {
		return nil, err
	}
	return []any{
		o.ID,
		o.UserID,
		day,
		string(o.Tier),
		o.BalanceScore,
		weightsRaw,
		o.PrimaryInsight,
		o.InsightTemplateID,
		actionRaw,
		o.EncouragementMessage,
		o.SurpriseElement,
		o.TomorrowTeaser,
		o.CulturalRelevance,
		o.CitySpecific,
		o.GeneratedAt,
	}, nil
}

func parseDay(date string) (time.Time, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse outlook date %q: %w", date, err)
	}
	return day, nil
}

func encodeOutlookJSON(o domain.DailyOutlook) ([]byte, []byte, error) {
	weightsRaw, err := json.Marshal(o.Weights)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal weights: %w", err)
	}
	actions := o.QuickActions
	if actions == nil {
		actions = []domain.QuickAction{}
	}
	actionRaw, err := json.Marshal(actions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal quick actions: %w", err)
	}
	return weightsRaw, actionRaw, nil
}

func decodeOutlookJSON(o *domain.DailyOutlook, weightsRaw, actionRaw []byte) error {
	if len(weightsRaw) > 0 {
		if err := json.Unmarshal(weightsRaw, &o.Weights); err != nil {
			return fmt.Errorf("unmarshal weights: %w", err)
		}
	}
	o.QuickActions = []domain.QuickAction{}
	if len(actionRaw) > 0 {
		if err := json.Unmarshal(actionRaw, &o.QuickActions); err != nil {
			return fmt.Errorf("unmarshal quick actions: %w", err)
		}
	}
	return nil
}
