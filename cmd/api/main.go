// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the SafeCampus content panel API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Wire stores, the role resolver and the domain services.
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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/access"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/api"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/article"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/dashboard"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/media"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/moderation"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/config"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/metrics"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/middleware"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/migration"
	pgstore "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/postgres"
	redisstore "github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/redis"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/sec"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/auth"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/users/profile"
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
		slog.Duration("collaborator_timeout", cfg.CollaboratorTimeout),
		slog.Bool("uploads_enabled", cfg.UploadsEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.CollaboratorTimeout, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Metrics ─────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckSessions: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	timeout := cfg.CollaboratorTimeout

	profiles := profile.NewPostgresRepository(pool, timeout)
	resolver := access.NewResolver(profiles)

	authService := auth.NewService(
		auth.NewAccountRepository(pool, timeout),
		auth.NewSessionRepository(rdb, timeout),
		auth.NewEventBus(rdb, timeout),
		tokens,
		resolver,
		recorder,
	)

	// Article writes re-check the author's stored role at the store boundary.
	articleService := article.NewService(
		article.NewGuardedRepository(article.NewPostgresRepository(pool, timeout), profiles),
		article.NewSanitizer(),
		recorder,
	)

	// Moderation mutations pass through the store-side admin check.
	moderationService := moderation.NewService(profile.NewGuardedRepository(profiles), authService, recorder)

	var presigner media.Presigner
	if cfg.UploadsEnabled() {
		s3Presigner, err := media.NewS3Presigner(startupCtx, media.S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		must(log, err, "initialize s3 presigner")
		presigner = s3Presigner
	} else {
		log.Warn("cover_uploads_disabled")
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    metrics.Handler(registry),
		Auth:       auth.NewHandler(authService, resolver),
		Dashboard:  dashboard.NewHandler(dashboard.NewService(articleService)),
		Articles:   article.NewHandler(articleService),
		Media:      media.NewHandler(media.NewService(presigner, cfg.S3Bucket, cfg.S3PublicBaseURL)),
		Moderation: moderation.NewHandler(moderationService),
	}

	server := api.NewServer(cfg, log, api.Security{
		Verifier: tokens,
		Sessions: authService,
		Guard: middleware.Guard{
			Resolver: resolver,
			SignOut:  authService,
			Recorder: recorder,
		},
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

	// Give in-flight requests enough time to complete.
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
