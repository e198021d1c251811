package repotest

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/repository"
)

// RunOutlookSuite valida el contrato de OutlookRepository. makeRepo debe devolver un
// repositorio aislado y vacio.
func RunOutlookSuite(t *testing.T, makeRepo func(t *testing.T) repository.OutlookRepository) {
	t.Helper()

	t.Run("find missing", func(t *testing.T) {
		r := makeRepo(t)
		if _, err := r.Find(context.Background(), "u-"+uuid.NewString(), "2026-10-19"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("Find: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create then find is identical", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		o := NewOutlook("u-"+uuid.NewString(), "2026-10-19")
		if err := r.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := r.Find(ctx, o.UserID, o.Date)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if !reflect.DeepEqual(got, o) {
			t.Fatalf("round trip mismatch\nwant: %+v\ngot:  %+v", o, got)
		}
	})

	t.Run("empty quick actions stay non-nil", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		o := NewOutlook("u-"+uuid.NewString(), "2026-10-19")
		o.QuickActions = []domain.QuickAction{}
		if err := r.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := r.Find(ctx, o.UserID, o.Date)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got.QuickActions == nil || len(got.QuickActions) != 0 {
			t.Fatalf("expected empty non-nil quick actions, got %#v", got.QuickActions)
		}
	})

	t.Run("duplicate create is rejected", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		first := NewOutlook("u-"+uuid.NewString(), "2026-10-19")
		if err := r.Create(ctx, first); err != nil {
			t.Fatalf("Create: %v", err)
		}
		second := NewOutlook(first.UserID, first.Date)
		second.PrimaryInsight = "other"
		if err := r.Create(ctx, second); !errors.Is(err, repository.ErrDuplicateKey) {
			t.Fatalf("Create duplicate: expected ErrDuplicateKey, got %v", err)
		}
		got, err := r.Find(ctx, first.UserID, first.Date)
		if err != nil || got.ID != first.ID || got.PrimaryInsight != first.PrimaryInsight {
			t.Fatalf("expected first bundle to survive, got %+v err=%v", got, err)
		}
	})

	t.Run("upsert replaces", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		first := NewOutlook("u-"+uuid.NewString(), "2026-10-19")
		if err := r.Upsert(ctx, first); err != nil {
			t.Fatalf("Upsert insert: %v", err)
		}
		second := NewOutlook(first.UserID, first.Date)
		second.BalanceScore = 99
		if err := r.Upsert(ctx, second); err != nil {
			t.Fatalf("Upsert replace: %v", err)
		}
		got, err := r.Find(ctx, first.UserID, first.Date)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if !reflect.DeepEqual(got, second) {
			t.Fatalf("expected replaced bundle\nwant: %+v\ngot:  %+v", second, got)
		}
	})

	t.Run("list by user newest first", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()
		for _, d := range []string{"2026-10-17", "2026-10-19", "2026-10-18"} {
			if err := r.Create(ctx, NewOutlook(userID, d)); err != nil {
				t.Fatalf("Create %s: %v", d, err)
			}
		}
		if err := r.Create(ctx, NewOutlook("u-"+uuid.NewString(), "2026-10-19")); err != nil {
			t.Fatalf("Create other user: %v", err)
		}

		got, err := r.ListByUser(ctx, userID, 2)
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		if len(got) != 2 || got[0].Date != "2026-10-19" || got[1].Date != "2026-10-18" {
			t.Fatalf("unexpected history: %+v", got)
		}
		all, err := r.ListByUser(ctx, userID, 10)
		if err != nil || len(all) != 3 {
			t.Fatalf("expected 3 bundles, got %d err=%v", len(all), err)
		}
	})

	t.Run("concurrent create keeps one", func(t *testing.T) {
		r := makeRepo(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()
		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			ok   int
			dups int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := r.Create(ctx, NewOutlook(userID, "2026-10-19"))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, repository.ErrDuplicateKey):
					dups++
				default:
					t.Errorf("Create: %v", err)
				}
			}()
		}
		wg.Wait()
		if ok != 1 || dups != n-1 {
			t.Fatalf("expected 1 insert and %d duplicates, got %d and %d", n-1, ok, dups)
		}
	})
}

// NewOutlook construye un bundle completo con timestamps en precision de microsegundos.
func NewOutlook(userID, date string) domain.DailyOutlook {
	return domain.DailyOutlook{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         date,
		Tier:         domain.TierMid,
		BalanceScore: 64,
		Weights: domain.DynamicWeights{
			Financial:    0.35,
			Wellness:     0.2,
			Relationship: 0.3,
			Career:       0.15000000000000002,
		},
		PrimaryInsight:    "Atlanta leads the South in Black-owned businesses.",
		InsightTemplateID: "ins-city-atlanta-financial",
		QuickActions: []domain.QuickAction{
			{ID: "fin-med-bill", Title: "Compare one recurring bill", Description: "d", Category: domain.CategoryFinancial, Difficulty: domain.DifficultyMedium, EstimatedMinutes: 20, TierOrigin: domain.TierMid},
			{ID: "rel-easy-text", Title: "Send a check-in text", Description: "d", Category: domain.CategoryRelationship, Difficulty: domain.DifficultyEasy, EstimatedMinutes: 2, TierOrigin: domain.TierBudget},
		},
		EncouragementMessage: "Two weeks strong!",
		SurpriseElement:      "Monday money fact.",
		TomorrowTeaser:       "Tomorrow: Atlanta events.",
		CulturalRelevance:    true,
		CitySpecific:         true,
		GeneratedAt:          time.Date(2026, 10, 19, 7, 30, 0, 123456000, time.UTC),
	}
}
