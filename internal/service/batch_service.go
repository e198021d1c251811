package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/email"
	"mingus-outlook/internal/repository"
)

// BatchReport resume una corrida del batch diario.
type BatchReport struct {
	RunID      string        `json:"run_id"`
	Date       string        `json:"date"`
	Users      int           `json:"users"`
	Generated  int64         `json:"generated"`
	Reused     int64         `json:"reused"`
	Failed     int64         `json:"failed"`
	Notified   int64         `json:"notified"`
	NotifyErrs int64         `json:"notify_errors"`
	Duration   time.Duration `json:"duration"`
}

// BatchService genera el outlook diario de todos los usuarios activos y notifica por correo.
// Nunca fuerza regeneracion: solo los bundles creados en esta corrida se notifican.
type BatchService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	outlooks     *OutlookService
	sender       email.Sender
	metrics      *OutlookMetrics
	workers      int
	activeWithin time.Duration
}

func NewBatchService(logger *zap.Logger, users repository.UserRepository, outlooks *OutlookService, sender email.Sender, metrics *OutlookMetrics, workers int, activeWithin time.Duration) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = email.NewDisabledSender("")
	}
	if workers <= 0 {
		workers = 4
	}
	if activeWithin <= 0 {
		activeWithin = 14 * 24 * time.Hour
	}
	return &BatchService{
		logger:       logger,
		users:        users,
		outlooks:     outlooks,
		sender:       sender,
		metrics:      metrics,
		workers:      workers,
		activeWithin: activeWithin,
	}
}

// Run procesa la fecha indicada (zero = hoy). Los fallos por usuario se cuentan en el
// reporte; solo un error al listar usuarios o la cancelacion del contexto abortan la corrida.
func (b *BatchService) Run(ctx context.Context, date time.Time) (BatchReport, error) {
	start := time.Now()
	if date.IsZero() {
		date = b.outlooks.Today()
	}
	report := BatchReport{
		RunID: ulid.Make().String(),
		Date:  domain.DayKey(date.In(b.outlooks.loc)),
	}
	logger := b.logger.With(zap.String("run_id", report.RunID), zap.String("date", report.Date))

	since := date.Add(-b.activeWithin)
	ids, err := b.users.ListActiveUserIDs(ctx, since)
	if err != nil {
		return report, fmt.Errorf("list active users: %w", err)
	}
	report.Users = len(ids)
	logger.Info("batch started", zap.Int("users", len(ids)), zap.Int("workers", b.workers))

	var generated, reused, failed, notified, notifyErrs atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, userID := range ids {
		if gctx.Err() != nil {
			break
		}
		userID := userID
		g.Go(func() error {
			outlook, created, err := b.outlooks.EnsureDailyOutlook(gctx, userID, date, false)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failed.Add(1)
				b.metrics.IncBatchUser(ResultFailed)
				logger.Warn("batch generation failed", zap.String("user_id", userID), zap.Error(err))
				return nil
			}
			if !created {
				reused.Add(1)
				b.metrics.IncBatchUser(ResultReused)
				return nil
			}
			generated.Add(1)
			b.metrics.IncBatchUser(ResultGenerated)

			switch err := b.notify(gctx, userID, outlook); {
			case err == nil:
				notified.Add(1)
			case errors.Is(err, email.ErrDisabled):
			default:
				notifyErrs.Add(1)
				logger.Warn("outlook notification failed", zap.String("user_id", userID), zap.Error(err))
			}
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report.Generated = generated.Load()
	report.Reused = reused.Load()
	report.Failed = failed.Load()
	report.Notified = notified.Load()
	report.NotifyErrs = notifyErrs.Load()
	report.Duration = time.Since(start)
	logger.Info("batch finished",
		zap.Int64("generated", report.Generated),
		zap.Int64("reused", report.Reused),
		zap.Int64("failed", report.Failed),
		zap.Int64("notified", report.Notified),
		zap.Duration("duration", report.Duration),
	)
	if err != nil {
		return report, fmt.Errorf("batch interrupted: %w", err)
	}
	return report, nil
}

func (b *BatchService) notify(ctx context.Context, userID string, outlook domain.DailyOutlook) error {
	profile, err := b.users.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	return b.sender.SendDailyOutlook(ctx, email.Recipient{Email: profile.Email, FirstName: profile.FirstName}, outlook)
}
