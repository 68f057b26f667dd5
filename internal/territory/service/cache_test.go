package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"territory/internal/territory/models"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisOverviewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisOverviewCache(client, ttl, discardLogger()), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "couple-1")
	assert.False(t, ok, "cold cache misses")

	ov := &models.Overview{
		Success: true,
		Data: models.OverviewData{
			TotalKeys: 2,
			Cities: []models.CitySummary{{
				CityName:          "Seoul",
				TotalDistricts:    3,
				LockedDistricts:   1,
				UnlockedDistricts: 2,
			}},
		},
	}
	cache.Set(ctx, "couple-1", ov)

	got, ok := cache.Get(ctx, "couple-1")
	require.True(t, ok)
	assert.Equal(t, ov, got)
}

func TestRedisCacheKeysAreScopedPerCouple(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "couple-1", &models.Overview{Success: true})

	_, ok := cache.Get(ctx, "couple-2")
	assert.False(t, ok)
}

func TestRedisCacheInvalidate(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "couple-1", &models.Overview{Success: true})
	require.NoError(t, cache.Invalidate(ctx, "couple-1"))

	_, ok := cache.Get(ctx, "couple-1")
	assert.False(t, ok)
}

func TestRedisCacheInvalidateMissingKey(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)

	assert.NoError(t, cache.Invalidate(context.Background(), "couple-1"), "deleting an absent entry is fine")
}

func TestRedisCacheEntriesExpire(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "couple-1", &models.Overview{Success: true})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "couple-1")
	assert.False(t, ok)
}

func TestRedisCacheCorruptPayloadDegradesToMiss(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)

	require.NoError(t, mr.Set("territory:overview:couple-1", "{not json"))

	_, ok := cache.Get(context.Background(), "couple-1")
	assert.False(t, ok)
}

func TestRedisCacheUnreachableDegradesToMiss(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "couple-1", &models.Overview{Success: true})
	mr.Close()

	_, ok := cache.Get(ctx, "couple-1")
	assert.False(t, ok, "a dead cache is a miss, never an error")
}
