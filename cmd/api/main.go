package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"georag/internal/app"
	"georag/internal/config"
	"georag/internal/contextutil"
	"georag/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API retrieves context for questions about European geography from a knowledge
// graph, a text corpus, or both, and answers questions from that context.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: GeoRAG API
//   description: |
//     Hybrid retrieval API combining a Neo4j knowledge graph with vector search.
//     Each retrieval strategy can be run alone, compared side by side, or used to ground an LLM answer.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close(context.Background())

	deps := &http.Deps{
		QueryService:   a.Query,
		VectorStore:    a.Vectors,
		Graph:          a.Graph,
		CollectionName: cfg.QdrantCollection,
	}
	if a.NERService != nil {
		deps.Recognizer = a.NERService
	}
	router := http.NewRouter(deps)

	// Index the configured corpus in the background once the router is ready
	if cfg.CorpusPath != "" {
		go func() {
			slog.Info("Starting background indexing of corpus", "path", cfg.CorpusPath)
			stats, err := a.IndexCorpus(ctx, cfg.CorpusPath)
			if err != nil {
				slog.Error("Indexing completed with errors", "error", err)
				return
			}
			slog.Info("Indexing completed successfully",
				"processed", stats.Processed,
				"embedded", stats.Embedded,
				"skipped", stats.Skipped,
				"removed", stats.Removed,
			)
		}()
	}

	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed: %v", err)
	}
	slog.Info("API server stopped")
}
