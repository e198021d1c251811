package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/email"
)

type mockSender struct {
	mu   sync.Mutex
	sent map[string]domain.DailyOutlook
	err  error
}

func (m *mockSender) SendDailyOutlook(_ context.Context, to email.Recipient, outlook domain.DailyOutlook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = make(map[string]domain.DailyOutlook)
	}
	m.sent[to.Email] = outlook
	return nil
}

func TestBatchService_Run(t *testing.T) {
	f := newOutlookFixture()
	f.users.profiles["u-atl"] = func() domain.UserProfile {
		p := f.users.profiles["u-atl"]
		p.Email = "maya@example.com"
		return p
	}()
	svc := f.service()
	sender := &mockSender{}
	batch := NewBatchService(nil, f.users, svc, sender, nil, 4, 0)

	report, err := batch.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RunID == "" || report.Date != "2026-10-19" {
		t.Fatalf("unexpected report identity: %+v", report)
	}
	// u-broken no tiene tier: cuenta como fallo sin abortar la corrida.
	if report.Users != 3 || report.Generated != 2 || report.Failed != 1 || report.Reused != 0 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.Notified != 2 || len(sender.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %+v (%d sent)", report, len(sender.sent))
	}

	// Segunda corrida del mismo dia: todo se reutiliza y no se notifica de nuevo.
	again, err := batch.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Generated != 0 || again.Reused != 2 || again.Notified != 0 {
		t.Fatalf("expected idempotent rerun, got %+v", again)
	}
	if again.RunID == report.RunID {
		t.Fatalf("expected distinct run ids")
	}
}

func TestBatchService_DisabledSenderIsNotAnError(t *testing.T) {
	f := newOutlookFixture()
	batch := NewBatchService(nil, f.users, f.service(), email.NewDisabledSender(""), nil, 2, time.Hour)

	report, err := batch.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Notified != 0 || report.NotifyErrs != 0 || report.Generated != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBatchService_NotificationFailuresAreCounted(t *testing.T) {
	f := newOutlookFixture()
	batch := NewBatchService(nil, f.users, f.service(), &mockSender{err: errors.New("smtp down")}, nil, 2, 0)

	report, err := batch.Run(context.Background(), testNow)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.NotifyErrs != 2 || report.Generated != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBatchService_ListError(t *testing.T) {
	f := newOutlookFixture()
	f.users.err = errors.New("db down")
	batch := NewBatchService(nil, f.users, f.service(), nil, nil, 2, 0)
	if _, err := batch.Run(context.Background(), testNow); err == nil {
		t.Fatalf("expected list error")
	}
}

func TestBatchService_Cancelled(t *testing.T) {
	f := newOutlookFixture()
	batch := NewBatchService(nil, f.users, f.service(), nil, nil, 1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := batch.Run(ctx, testNow); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
