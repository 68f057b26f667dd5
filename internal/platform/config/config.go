// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures everything the territory service needs at startup.
type Server struct {
	Addr           string
	DatabaseURL    string
	Redis          RedisConfig
	JWTSigningKey  string
	AuthServiceURL string
	RequireTicket  bool
	RequestTimeout time.Duration
	OverviewTTL    time.Duration
}

// RedisConfig carries connection tuning for the shared Redis instance. An
// empty URL disables Redis entirely (no overview cache, no ticket gate).
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv reads the environment with development-friendly defaults.
func FromEnv() Server {
	return Server{
		Addr:           envOr("TERRITORY_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AuthServiceURL: os.Getenv("AUTH_SERVICE_URL"),
		RequireTicket:  os.Getenv("REQUIRE_TICKET") == "true",
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 10*time.Second),
		OverviewTTL:    envDuration("OVERVIEW_CACHE_TTL", 5*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
