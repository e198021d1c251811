package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/repository"
	"mingus-outlook/internal/service"
)

var handlerNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newHandlerStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "outlook.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	profiles := []domain.UserProfile{
		{ID: "u1", Email: "maya@example.com", FirstName: "Maya", Location: domain.Location{City: "Atlanta", State: "GA"},
			RelationshipStatus: domain.RelationshipSingleCareerFocused, Tier: domain.TierProfessional, SignupAt: handlerNow},
		{ID: "u-broken", Email: "broken@example.com", SignupAt: handlerNow},
	}
	for _, p := range profiles {
		if err := store.UpsertProfile(ctx, p); err != nil {
			t.Fatalf("UpsertProfile: %v", err)
		}
	}
	if err := store.UpsertActivity(ctx, domain.ActivitySnapshot{
		UserID: "u1", MoodScore: 4, FinancialScore: 60, StreakCount: 7, LastActiveDate: handlerNow,
	}); err != nil {
		t.Fatalf("UpsertActivity: %v", err)
	}
	return store
}

func newHandlerOutlookService(store *repository.SQLiteStore, opts ...service.OutlookOption) *service.OutlookService {
	opts = append([]service.OutlookOption{service.WithClock(func() time.Time { return handlerNow })}, opts...)
	return service.NewOutlookService(
		zap.NewNop(), store, store, store,
		service.NewWeightResolver(nil),
		service.NewContentSelector(service.MustDefaultTemplateStore(), nil),
		opts...,
	)
}

func setupOutlookRouter(svc *service.OutlookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewOutlookHandler(zap.NewNop(), svc)
	r.GET("/daily-outlook/:user_id", h.GetDailyOutlook)
	r.POST("/daily-outlook/:user_id/regenerate", h.RegenerateDailyOutlook)
	r.GET("/daily-outlook/:user_id/history", h.ListHistory)
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeOutlook(t *testing.T, rec *httptest.ResponseRecorder) domain.DailyOutlook {
	t.Helper()
	var resp struct {
		Outlook domain.DailyOutlook `json:"outlook"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Outlook
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestOutlookHandlerGetDailyOutlook_Success(t *testing.T) {
	store := newHandlerStore(t)
	r := setupOutlookRouter(newHandlerOutlookService(store))

	rec := performRequest(r, http.MethodGet, "/daily-outlook/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decodeOutlook(t, rec)
	if first.UserID != "u1" || first.Date != "2026-10-19" || first.PrimaryInsight == "" {
		t.Fatalf("unexpected outlook: %+v", first)
	}
	if first.QuickActions == nil {
		t.Fatalf("expected quick_actions array")
	}

	rec = performRequest(r, http.MethodGet, "/daily-outlook/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on second call, got %d", rec.Code)
	}
	if second := decodeOutlook(t, rec); second.ID != first.ID {
		t.Fatalf("expected same bundle id, got %s and %s", first.ID, second.ID)
	}
}

func TestOutlookHandlerGetDailyOutlook_Errors(t *testing.T) {
	store := newHandlerStore(t)
	r := setupOutlookRouter(newHandlerOutlookService(store))

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "unknown user", path: "/daily-outlook/missing", status: http.StatusNotFound, code: "user_not_found"},
		{name: "profile without tier", path: "/daily-outlook/u-broken", status: http.StatusUnprocessableEntity, code: "invalid_user_data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(r, http.MethodGet, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := decodeError(t, rec); got != tt.code {
				t.Fatalf("expected error %q, got %q", tt.code, got)
			}
		})
	}
}

func TestOutlookHandlerRegenerate_RateLimited(t *testing.T) {
	store := newHandlerStore(t)
	svc := newHandlerOutlookService(store, service.WithRegenerateLimiter(service.NewMemoryRateLimiter(24*time.Hour, 1)))
	r := setupOutlookRouter(svc)

	first := decodeOutlook(t, performRequest(r, http.MethodGet, "/daily-outlook/u1", nil))

	rec := performRequest(r, http.MethodPost, "/daily-outlook/u1/regenerate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if regenerated := decodeOutlook(t, rec); regenerated.ID == first.ID {
		t.Fatalf("expected regenerate to replace bundle id")
	}

	rec = performRequest(r, http.MethodPost, "/daily-outlook/u1/regenerate", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
}

func TestOutlookHandlerListHistory(t *testing.T) {
	store := newHandlerStore(t)
	r := setupOutlookRouter(newHandlerOutlookService(store))

	if rec := performRequest(r, http.MethodGet, "/daily-outlook/u1", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec := performRequest(r, http.MethodGet, "/daily-outlook/u1/history?limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Outlooks []domain.DailyOutlook `json:"outlooks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.Outlooks) != 1 || resp.Outlooks[0].Date != "2026-10-19" {
		t.Fatalf("unexpected history: %+v", resp.Outlooks)
	}

	if rec := performRequest(r, http.MethodGet, "/daily-outlook/u1/history?limit=abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad limit, got %d", rec.Code)
	}
	if rec := performRequest(r, http.MethodGet, "/daily-outlook/missing/history", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown user, got %d", rec.Code)
	}
}
