package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"territory/internal/territory/models"
)

const overviewKeyPrefix = "territory:overview:"

// RedisOverviewCache is a cache-aside layer over overview builds. It is
// strictly an optimization: every failure degrades to a miss, and the unlock
// engine invalidates entries synchronously in its commit path.
type RedisOverviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisOverviewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisOverviewCache {
	return &RedisOverviewCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisOverviewCache) key(coupleID string) string {
	return overviewKeyPrefix + coupleID
}

func (c *RedisOverviewCache) Get(ctx context.Context, coupleID string) (*models.Overview, bool) {
	payload, err := c.client.Get(ctx, c.key(coupleID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "overview cache read failed", "couple_id", coupleID, "error", err.Error())
		}
		return nil, false
	}
	var ov models.Overview
	if err := json.Unmarshal(payload, &ov); err != nil {
		c.logger.WarnContext(ctx, "overview cache payload corrupt", "couple_id", coupleID, "error", err.Error())
		return nil, false
	}
	return &ov, true
}

func (c *RedisOverviewCache) Set(ctx context.Context, coupleID string, ov *models.Overview) {
	payload, err := json.Marshal(ov)
	if err != nil {
		c.logger.WarnContext(ctx, "overview cache encode failed", "couple_id", coupleID, "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, c.key(coupleID), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "overview cache write failed", "couple_id", coupleID, "error", err.Error())
	}
}

func (c *RedisOverviewCache) Invalidate(ctx context.Context, coupleID string) error {
	return c.client.Del(ctx, c.key(coupleID)).Err()
}
