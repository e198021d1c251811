package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/service"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(_ context.Context) error {
	return p.err
}

func newTestRouter(t *testing.T, jwtSvc *service.JWTService, pinger Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newHandlerStore(t)
	reg := prometheus.NewRegistry()
	svc := newHandlerOutlookService(store, service.WithMetrics(service.MustNewMetrics(reg)))
	return NewRouter(
		zap.NewNop(),
		NewOutlookHandler(zap.NewNop(), svc),
		NewTierHandler(service.NewTierCatalog()),
		NewHealthHandler(zap.NewNop(), pinger),
		jwtSvc,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
}

func authorizedRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_OutlookRoutesRequireMatchingUser(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute)
	r := newTestRouter(t, jwtSvc, stubPinger{})

	own, err := jwtSvc.IssueAccessToken(domain.UserProfile{ID: "u1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	foreign, err := jwtSvc.IssueAccessToken(domain.UserProfile{ID: "u2"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "no token", status: http.StatusUnauthorized},
		{name: "other user", token: foreign, status: http.StatusForbidden},
		{name: "same user", token: own, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authorizedRequest(r, "/daily-outlook/u1", tt.token)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestRouter_OpenWithoutJWT(t *testing.T) {
	r := newTestRouter(t, nil, stubPinger{})

	rec := authorizedRequest(r, "/daily-outlook/u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json content type, got %q", ct)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil, stubPinger{})

	if rec := authorizedRequest(r, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}

	if rec := authorizedRequest(r, "/daily-outlook/u1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected outlook 200, got %d", rec.Code)
	}
	rec := authorizedRequest(r, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `mingus_outlook_generations_total{result="generated"} 1`) {
		t.Fatalf("expected generation counter in metrics output:\n%s", rec.Body.String())
	}
}

func TestRouter_HealthUnavailable(t *testing.T) {
	r := newTestRouter(t, nil, stubPinger{err: errors.New("db down")})

	if rec := authorizedRequest(r, "/healthz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected healthz 503, got %d", rec.Code)
	}
}
