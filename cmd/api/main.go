// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Gatekeep HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the credential store (PostgreSQL or SQLite) and migrate it.
//  4. Connect to Redis when an identity cache is configured.
//  5. Wire security primitives, metrics and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/gatekeep/internal/api"
	"github.com/taibuivan/gatekeep/internal/platform/config"
	"github.com/taibuivan/gatekeep/internal/platform/constants"
	"github.com/taibuivan/gatekeep/internal/platform/metrics"
	"github.com/taibuivan/gatekeep/internal/platform/migration"
	pgstore "github.com/taibuivan/gatekeep/internal/platform/postgres"
	redisstore "github.com/taibuivan/gatekeep/internal/platform/redis"
	"github.com/taibuivan/gatekeep/internal/platform/sec"
	"github.com/taibuivan/gatekeep/internal/platform/sqlite"
	"github.com/taibuivan/gatekeep/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("identity_cache", cfg.CacheEnabled()),
	)

	// Bound startup so misconfiguration is caught quickly rather than hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Credential Store ───────────────────────────────────────────────
	users, closeStore, err := openUserRepository(startupCtx, cfg, log)
	must(log, err, "open credential store")
	defer closeStore()

	// ── 4. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// ── 5. Identity Loader (optionally cached) ────────────────────────────
	health := api.HealthDependencies{
		DatabaseName:  cfg.DatabaseDriver,
		CheckDatabase: users.Ping,
	}

	var identities auth.IdentityLoader = auth.NewIdentityLoader(users)
	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisTimeout, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		identities = auth.NewCachedIdentityLoader(identities, rdb, cfg.IdentityCacheTTL, appMetrics)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}

	// ── 6. Security Primitives ────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, cfg.TokenValidity(), cfg.JWTIssuer)
	must(log, err, "initialize token service")
	hasher := sec.NewPasswordHasher(cfg.BcryptCost)

	log.Info("token_service_ready",
		slog.String("algorithm", tokens.Algorithm()),
		slog.Duration("validity", tokens.Validity()),
	)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(users, identities, hasher, tokens, appMetrics)
	liveness, readiness := api.NewHealthHandlers(health, log)

	server := api.NewServer(cfg, log, authService, appMetrics, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metrics.Handler(registry),
		Auth:      auth.NewHandler(authService),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// openUserRepository connects and migrates the configured backend.
//
// The returned close function releases the underlying connections.
func openUserRepository(ctx context.Context, cfg *config.Config, log *slog.Logger) (auth.UserRepository, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.RunSQLite(db, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		closeDB := func() {
			log.Info("closing_sqlite_database")
			if err := db.Close(); err != nil {
				log.Error("sqlite_close_failed", slog.Any("error", err))
			}
		}
		return auth.NewSQLiteUserRepository(db), closeDB, nil

	default:
		if err := migration.RunPostgres(cfg.DatabaseURL, log); err != nil {
			return nil, nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, log)
		if err != nil {
			return nil, nil, err
		}
		closePool := func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}
		return auth.NewPostgresUserRepository(pool), closePool, nil
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
