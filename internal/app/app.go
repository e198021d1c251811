package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mingus-outlook/internal/config"
	"mingus-outlook/internal/db"
	"mingus-outlook/internal/email"
	"mingus-outlook/internal/repository"
	"mingus-outlook/internal/service"
)

// Pinger verifica conectividad con el store configurado.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App agrupa las dependencias compartidas por el API y el batch.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *service.OutlookMetrics

	Users    repository.UserRepository
	Activity repository.ActivityRepository
	Outlooks repository.OutlookRepository
	Store    Pinger
	SQLite   *repository.SQLiteStore

	Tiers   *service.TierCatalog
	Outlook *service.OutlookService
	Batch   *service.BatchService
	JWT     *service.JWTService

	closers []func()
}

// New construye el grafo de dependencias a partir de la configuracion.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Tiers:    service.NewTierCatalog(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = service.MustNewMetrics(a.Registry)

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	templates := service.MustDefaultTemplateStore()
	if cfg.TemplateCatalogPath != "" {
		loaded, err := service.LoadTemplateCatalog(cfg.TemplateCatalogPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load template catalog: %w", err)
		}
		templates = loaded
		logger.Info("template catalog loaded",
			zap.String("path", cfg.TemplateCatalogPath),
			zap.Int("templates", loaded.TemplateCount()),
			zap.Int("quick_actions", loaded.ActionCount()),
		)
	}

	cache, limiter := a.openCaches(ctx)

	a.Outlook = service.NewOutlookService(
		logger,
		a.Users,
		a.Activity,
		a.Outlooks,
		service.NewWeightResolver(logger),
		service.NewContentSelector(templates, logger),
		service.WithBundleCache(cache),
		service.WithRegenerateLimiter(limiter),
		service.WithMetrics(a.Metrics),
		service.WithLocation(cfg.Location()),
	)
	a.Batch = service.NewBatchService(
		logger,
		a.Users,
		a.Outlook,
		newEmailSender(cfg, logger),
		a.Metrics,
		cfg.BatchWorkers,
		time.Duration(cfg.BatchActiveWithinDays)*24*time.Hour,
	)

	if cfg.JWTSecret != "" {
		a.JWT = service.NewJWTService(cfg.JWTSecret, 15*time.Minute)
	} else {
		logger.Warn("jwt secret not configured, daily outlook routes are unauthenticated")
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case "sqlite":
		store, err := repository.NewSQLiteStore(a.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.SQLite = store
		a.Users, a.Activity, a.Outlooks, a.Store = store, store, store, store
		a.closers = append(a.closers, func() { _ = store.Close() })
	default:
		pool, err := db.NewPool(ctx, a.Config)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if a.Config.DBAutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				a.Close()
				return fmt.Errorf("db migrate: %w", err)
			}
		}
		a.Users = repository.NewPgUserRepository(pool)
		a.Activity = repository.NewPgActivityRepository(pool)
		a.Outlooks = repository.NewPgOutlookRepository(pool)
		a.Store = pool
	}
	return nil
}

// openCaches usa redis si responde; si no, cache LRU y limiter en memoria por replica.
func (a *App) openCaches(ctx context.Context) (service.BundleCache, service.RateLimiter) {
	cfg := a.Config
	window := 24 * time.Hour
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(ctxPing).Err()
		cancel()
		if err == nil {
			a.closers = append(a.closers, func() { _ = client.Close() })
			return service.NewRedisBundleCache(client, cfg.BundleCacheTTL(), a.Logger),
				service.NewRedisRateLimiter(client, window, cfg.RegenerateLimitPerDay)
		}
		a.Logger.Error("redis configured but unreachable, falling back to per-replica cache and limiter",
			zap.String("redis_addr", cfg.RedisAddr),
			zap.Error(err),
		)
		_ = client.Close()
	}

	return service.NewLRUBundleCache(cfg.BundleCacheSize, cfg.LocalCacheTTL()),
		service.NewMemoryRateLimiter(window, cfg.RegenerateLimitPerDay)
}

func newEmailSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	switch cfg.EmailProvider {
	case "smtp":
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, cfg.EmailFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
			return email.NewDisabledSender(err.Error())
		}
		return sender
	case "sendgrid":
		sender, err := email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridBaseURL, cfg.EmailFrom, cfg.EmailFromName)
		if err != nil {
			logger.Warn("sendgrid sender init failed", zap.Error(err))
			return email.NewDisabledSender(err.Error())
		}
		return sender
	default:
		return email.NewDisabledSender("email sender not configured")
	}
}

// Close libera conexiones en orden inverso de apertura.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
