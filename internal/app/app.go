package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/itzulbide/alignd/internal/adapter/postgres"
	"github.com/itzulbide/alignd/internal/adapter/postgres/alignmentcache"
	quotarepo "github.com/itzulbide/alignd/internal/adapter/postgres/quota"
	"github.com/itzulbide/alignd/internal/adapter/provider/itzuli"
	"github.com/itzulbide/alignd/internal/adapter/provider/stanza"
	"github.com/itzulbide/alignd/internal/config"
	"github.com/itzulbide/alignd/internal/service/aligner"
	"github.com/itzulbide/alignd/internal/service/pipeline"
	"github.com/itzulbide/alignd/internal/service/quota"
	"github.com/itzulbide/alignd/internal/transport/middleware"
	"github.com/itzulbide/alignd/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// storage, provider clients and services together, starts the analyzer
// warm-up task, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	itzuliClient := itzuli.New(cfg.Itzuli, logger)
	stanzaClient := stanza.New(cfg.Stanza, logger)

	gate := quota.NewGate(logger, quotarepo.New(pool), cfg.Quota.DailyLimit)
	alignSvc := aligner.NewService(cfg.LLM, logger)
	pipe := pipeline.NewService(logger, alignmentcache.New(pool), gate, itzuliClient, stanzaClient, alignSvc)

	// The analyzer sidecar loads its language pipelines on demand; warming
	// them up front keeps the first real request fast. A failed warm-up is
	// not fatal: the sidecar warms lazily, the service marks itself ready
	// regardless.
	var ready atomic.Bool
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), cfg.Stanza.PreloadTimeout)
		defer cancel()

		langs := cfg.Stanza.Languages()
		if err := stanzaClient.Preload(warmCtx, langs); err != nil {
			logger.Warn("analyzer warm-up failed, pipelines will load lazily",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("analyzer warm-up complete", slog.Any("languages", langs))
		}
		ready.Store(true)
	}()

	healthHandler := rest.NewHealthHandler(ready.Load)
	alignHandler := rest.NewAlignHandler(logger, pipe, cfg.Itzuli.APIKey != "", cfg.LLM.APIKey != "")
	analyzeHandler := rest.NewAnalyzeHandler(logger, itzuliClient, stanzaClient)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/analyze-and-scaffold", alignHandler.Align).Methods(http.MethodPost)
	router.HandleFunc("/analyze", analyzeHandler.Analyze).Methods(http.MethodPost)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      chain(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
