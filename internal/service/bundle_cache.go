package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mingus-outlook/internal/domain"
)

// BundleCache es una cache de lectura delante del OutlookRepository. Es best-effort: los
// errores se registran y se tratan como miss.
type BundleCache interface {
	Get(ctx context.Context, userID, date string) (domain.DailyOutlook, bool)
	Set(ctx context.Context, outlook domain.DailyOutlook)
}

func bundleCacheKey(userID, date string) string {
	return userID + "|" + date
}

type lruBundleCache struct {
	cache *expirable.LRU[string, domain.DailyOutlook]
}

// NewLRUBundleCache crea una cache en memoria de tamaño fijo. Es local a la replica: el ttl
// acota cuanto tiempo una replica puede servir un bundle que otra regenero.
func NewLRUBundleCache(size int, ttl time.Duration) BundleCache {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &lruBundleCache{cache: expirable.NewLRU[string, domain.DailyOutlook](size, nil, ttl)}
}

func (c *lruBundleCache) Get(_ context.Context, userID, date string) (domain.DailyOutlook, bool) {
	o, ok := c.cache.Get(bundleCacheKey(userID, date))
	if !ok {
		return domain.DailyOutlook{}, false
	}
	return cloneOutlook(o), true
}

func (c *lruBundleCache) Set(_ context.Context, outlook domain.DailyOutlook) {
	c.cache.Add(bundleCacheKey(outlook.UserID, outlook.Date), cloneOutlook(outlook))
}

// cloneOutlook evita que callers compartan el slice de quick actions con la cache.
func cloneOutlook(o domain.DailyOutlook) domain.DailyOutlook {
	actions := make([]domain.QuickAction, len(o.QuickActions))
	copy(actions, o.QuickActions)
	o.QuickActions = actions
	return o
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisBundleCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisBundleCache comparte outlooks entre replicas del API y workers del batch.
func NewRedisBundleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) BundleCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 36 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisBundleCache{
		client: client,
		ttl:    ttl,
		prefix: "outlook:bundle:",
		logger: logger,
	}
}

func (c *redisBundleCache) Get(ctx context.Context, userID, date string) (domain.DailyOutlook, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+bundleCacheKey(userID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("bundle cache get failed", zap.String("user_id", userID), zap.Error(err))
		}
		return domain.DailyOutlook{}, false
	}
	var o domain.DailyOutlook
	if err := json.Unmarshal(raw, &o); err != nil {
		c.logger.Warn("bundle cache decode failed", zap.String("user_id", userID), zap.Error(err))
		return domain.DailyOutlook{}, false
	}
	if o.QuickActions == nil {
		o.QuickActions = []domain.QuickAction{}
	}
	return o, true
}

func (c *redisBundleCache) Set(ctx context.Context, outlook domain.DailyOutlook) {
	raw, err := json.Marshal(outlook)
	if err != nil {
		c.logger.Warn("bundle cache encode failed", zap.String("user_id", outlook.UserID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+bundleCacheKey(outlook.UserID, outlook.Date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("bundle cache set failed", zap.String("user_id", outlook.UserID), zap.Error(err))
	}
}
