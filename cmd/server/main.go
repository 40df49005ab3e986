package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/examprep/quizcore/internal/api"
	"github.com/examprep/quizcore/internal/content"
	"github.com/examprep/quizcore/internal/grader"
	"github.com/examprep/quizcore/internal/infrastructure/config"
	"github.com/examprep/quizcore/internal/service"
	"github.com/examprep/quizcore/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Cancelled on SIGINT/SIGTERM; also stops any running mock countdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
	kv, err := store.Open(ctx, store.Driver(cfg.StoreDriver), cfg.StoreDSN, cfg.StoreNamespace)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	pool, err := content.Load(ctx, cfg.QuestionsPath, cfg.GlossaryPath, logger)
	if err != nil {
		logger.Error("failed to load content", "path", cfg.QuestionsPath, "error", err)
		os.Exit(1)
	}

	state := store.NewState(kv, logger)

	mockConfig := service.DefaultMockConfig()
	mockConfig.QuestionCount = cfg.MockQuestionCount
	mockConfig.Duration = cfg.MockDuration
	mockConfig.PassPercent = cfg.MockPassPercent

	handler := api.NewHandler(api.Services{
		Content:  pool,
		Practice: service.NewPracticeService(pool, state, grader.Exact{}, logger),
		Mock:     service.NewMockService(ctx, pool, state, mockConfig, logger),
		Profile:  service.NewProfileService(pool, state, logger),
		Stats:    service.NewStatsService(pool, state),
	}, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "store", cfg.StoreDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
