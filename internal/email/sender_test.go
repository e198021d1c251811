package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mingus-outlook/internal/domain"
)

func sampleOutlook() domain.DailyOutlook {
	return domain.DailyOutlook{
		UserID:               "u1",
		Date:                 "2026-10-19",
		BalanceScore:         72,
		PrimaryInsight:       "Atlanta insight",
		QuickActions:         []domain.QuickAction{{ID: "fin-easy-review", Title: "Review spending", EstimatedMinutes: 5}},
		EncouragementMessage: "Keep going",
		SurpriseElement:      "Monday fact",
		TomorrowTeaser:       "Tomorrow teaser",
	}
}

func TestComposeOutlook(t *testing.T) {
	subject, body := composeOutlook(Recipient{Email: "a@b.com", FirstName: "Maya"}, sampleOutlook())
	if subject != "Your Daily Outlook for 2026-10-19" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Maya", "72/100", "Atlanta insight", "Review spending (5 min)", "Tomorrow teaser"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q, got %q", want, body)
		}
	}
}

func TestDisabledSender(t *testing.T) {
	err := NewDisabledSender("").SendDailyOutlook(context.Background(), Recipient{Email: "a@b.com"}, sampleOutlook())
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	err = NewDisabledSender("no provider").SendDailyOutlook(context.Background(), Recipient{Email: "a@b.com"}, sampleOutlook())
	if !errors.Is(err, ErrDisabled) || !strings.Contains(err.Error(), "no provider") {
		t.Fatalf("expected wrapped ErrDisabled, got %v", err)
	}
}

func TestSendGridSender(t *testing.T) {
	var got sendGridRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := NewSendGridSender("key", srv.URL, "noreply@mingus.app", "Mingus")
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.SendDailyOutlook(context.Background(), Recipient{Email: "a@b.com", FirstName: "Maya"}, sampleOutlook()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "a@b.com" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.From.Email != "noreply@mingus.app" || !strings.Contains(got.Subject, "2026-10-19") {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s, err := NewSendGridSender("key", srv.URL, "noreply@mingus.app", "")
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	err = s.SendDailyOutlook(context.Background(), Recipient{Email: "a@b.com"}, sampleOutlook())
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSenderConstructorsValidate(t *testing.T) {
	if _, err := NewSendGridSender("", "", "a@b.com", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewSMTPSender("", 0, "", "", "a@b.com", "", false); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender("smtp.local", 0, "", "", "", "", false); err == nil {
		t.Fatalf("expected error without from")
	}
}

func TestSendersRejectEmptyRecipient(t *testing.T) {
	s, _ := NewSendGridSender("key", "http://127.0.0.1:1", "a@b.com", "")
	if err := s.SendDailyOutlook(context.Background(), Recipient{}, sampleOutlook()); err == nil {
		t.Fatalf("expected recipient validation error")
	}
	smtpSender, _ := NewSMTPSender("smtp.local", 25, "", "", "a@b.com", "", false)
	if err := smtpSender.SendDailyOutlook(context.Background(), Recipient{Email: " "}, sampleOutlook()); err == nil {
		t.Fatalf("expected recipient validation error")
	}
}
