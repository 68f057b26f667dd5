package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev-secret-key-change-in-production", cfg.JWTSigningKey)
	assert.False(t, cfg.RequireTicket)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.OverviewTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 2, cfg.Redis.MinIdleConns)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TERRITORY_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/territory")
	t.Setenv("JWT_SIGNING_KEY", "prod-key")
	t.Setenv("AUTH_SERVICE_URL", "http://auth:8080")
	t.Setenv("REQUIRE_TICKET", "true")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("OVERVIEW_CACHE_TTL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("REDIS_POOL_SIZE", "25")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/territory", cfg.DatabaseURL)
	assert.Equal(t, "prod-key", cfg.JWTSigningKey)
	assert.Equal(t, "http://auth:8080", cfg.AuthServiceURL)
	assert.True(t, cfg.RequireTicket)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.OverviewTTL)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestFromEnvMalformedValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("REDIS_POOL_SIZE", "many")
	t.Setenv("REQUIRE_TICKET", "yes")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.False(t, cfg.RequireTicket, "only the literal \"true\" enables the gate")
}
