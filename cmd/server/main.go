package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/catalog"
	"github.com/quizrun/quizrun-backend/internal/config"
	"github.com/quizrun/quizrun-backend/internal/database"
	"github.com/quizrun/quizrun-backend/internal/handler"
	"github.com/quizrun/quizrun-backend/internal/history"
	"github.com/quizrun/quizrun-backend/internal/logger"
	"github.com/quizrun/quizrun-backend/internal/router"
	"github.com/quizrun/quizrun-backend/internal/session"
	"github.com/quizrun/quizrun-backend/internal/validator"
	"github.com/quizrun/quizrun-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QuizRun Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	var source catalog.Source
	if cfg.DataBaseURL != "" {
		source = catalog.NewHTTPSource(cfg.DataBaseURL)
	} else {
		source = catalog.NewFSSource(cfg.DataDir)
	}

	catalogService := catalog.NewService(source, rdb, log)
	historyStore := history.NewStore(history.NewRedisKV(rdb), log)
	sessionManager := session.NewManager(catalogService, historyStore, cfg.AdvanceDelay, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService),
		Session: handler.NewSessionHandler(sessionManager),
		History: handler.NewHistoryHandler(historyStore),
		WS:      handler.NewWSHandler(sessionManager, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	reaperWorker := worker.NewReaperWorker(sessionManager, cfg.SessionTTL, log)
	go reaperWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the folder index and every quiz file into Redis BEFORE
	// accepting traffic, so the first session start never pays the fetch.
	if err := catalogService.Prewarm(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reaper and close every live session.
	workerCancel()
	time.Sleep(time.Second) // Allow the reaper to finish its teardown.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
