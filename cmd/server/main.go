package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"territory/internal/authclient"
	"territory/internal/jwttoken"
	"territory/internal/platform/config"
	"territory/internal/platform/httpserver"
	"territory/internal/platform/logger"
	platformmetrics "territory/internal/platform/metrics"
	"territory/internal/platform/postgres"
	platformredis "territory/internal/platform/redis"
	"territory/internal/territory/handler"
	territorymetrics "territory/internal/territory/metrics"
	"territory/internal/territory/service"
	regionstore "territory/internal/territory/store/region"
	unlockstore "territory/internal/territory/store/unlock"
	"territory/internal/tickets"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	regions := regionstore.NewPostgres(db)
	records := unlockstore.NewPostgres(db)

	var overviewCache service.OverviewCache
	if redisClient != nil {
		overviewCache = service.NewRedisOverviewCache(redisClient.Client, cfg.OverviewTTL, log)
	}

	// The auth service owns ticket balances when configured; the local Redis
	// counter covers deployments without one.
	var ticketGate handler.TicketGate
	if cfg.RequireTicket {
		switch {
		case cfg.AuthServiceURL != "":
			ticketGate = authclient.NewTicketGate(authclient.New(cfg.AuthServiceURL))
		case redisClient != nil:
			ticketGate = tickets.New(redisClient.Client, log)
		}
	}

	platformMetrics := platformmetrics.New()
	featureMetrics := territorymetrics.New()

	resolver := service.NewRegionResolver(regions)
	engine := service.NewUnlockEngine(resolver, records, regions, overviewCache, log, featureMetrics)
	overview := service.NewOverviewBuilder(regions, records, overviewCache, featureMetrics)
	query := service.NewTerritoryQuery(resolver, records, featureMetrics)

	tokens := jwttoken.New(cfg.JWTSigningKey)

	h := handler.New(engine, overview, query, ticketGate, tokens, log, platformMetrics, cfg.RequestTimeout)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting territory service", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
