package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"mingus-outlook/internal/db"
	"mingus-outlook/internal/repository"
	"mingus-outlook/internal/repository/repotest"
)

// Requiere una base Postgres desechable en TEST_DATABASE_URL.
func TestPgOutlookRepository_Suite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repotest.RunOutlookSuite(t, func(t *testing.T) repository.OutlookRepository {
		return repository.NewPgOutlookRepository(pool)
	})
}
