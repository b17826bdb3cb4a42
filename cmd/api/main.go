// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

// Command api is the entry point for the Folio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the object store that holds the issue PDFs.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/lehoangminh/folio/internal/api"
	"github.com/lehoangminh/folio/internal/auth"
	"github.com/lehoangminh/folio/internal/board"
	"github.com/lehoangminh/folio/internal/journal"
	"github.com/lehoangminh/folio/internal/pdfproxy"
	"github.com/lehoangminh/folio/internal/platform/config"
	"github.com/lehoangminh/folio/internal/platform/constants"
	"github.com/lehoangminh/folio/internal/platform/migration"
	pgstore "github.com/lehoangminh/folio/internal/platform/postgres"
	redisstore "github.com/lehoangminh/folio/internal/platform/redis"
	"github.com/lehoangminh/folio/internal/platform/sec"
	"github.com/lehoangminh/folio/internal/storage"
	"github.com/lehoangminh/folio/internal/viewer"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "folio"))
	slog.SetDefault(log)

	log.Info("[Folio] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "folio"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application-lifetime context. Background middleware goroutines (rate
	// limiter cleanup) run until this is cancelled at shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Object Store ───────────────────────────────────────────────────
	objects, err := storage.NewFSStore(cfg.StorageRoot, cfg.StorageBaseURL, log)
	must(log, err, "open object store")

	// ── 7. Auth Service ───────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckStorage: func() error {
			_, err := objects.Exists(context.Background(), "healthcheck")
			return err
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewPostgresUserRepository(pool)
	sessionRepository := auth.NewPostgresSessionRepository(pool)
	resetTokenRepository := auth.NewRedisResetTokenRepository(rdb)
	authService := auth.NewService(
		userRepository, sessionRepository, resetTokenRepository,
		jwtSvc, auth.NewLogMailer(log), log,
	)
	authHandler := auth.NewHandler(authService)

	journalRepository := journal.NewPostgresRepository(pool)
	journalService := journal.NewService(journalRepository, objects, log)
	journalHandler := journal.NewHandler(journalService)

	boardRepository := board.NewPostgresRepository(pool)
	boardService := board.NewService(boardRepository, log)
	boardHandler := board.NewHandler(boardService)

	// The preview endpoint works from bytes it parses itself, so its
	// strategy only carries the parsing tiers. The embed tier belongs to
	// browser-side viewing where the iframe does the rendering.
	parser := viewer.NewFitzParser()
	fetchStrategy := viewer.NewStrategy(log,
		viewer.NewDirectTier(http.DefaultClient, parser),
		viewer.NewBlobTier(objects, parser),
	)
	viewerHandler := viewer.NewHandler(journalService, fetchStrategy)

	pdfProxy := pdfproxy.NewHandler(api.NewJournalRecords(journalService), objects)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Journal:   journalHandler,
		Board:     boardHandler,
		Viewer:    viewerHandler,
		PDFProxy:  pdfProxy,
		Objects:   storage.NewHandler(objects),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
