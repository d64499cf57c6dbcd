// Package app wires configuration into the stores, clients and services shared by
// the API server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"georag/internal/config"
	"georag/internal/contextutil"
	"georag/internal/corpus"
	"georag/internal/graph"
	"georag/internal/llm"
	"georag/internal/ner"
	"georag/internal/retrieval"
	"georag/internal/service"
	"georag/internal/storage"
	"georag/internal/vectorstore"
)

// App holds every long-lived dependency.
type App struct {
	Config *config.Config

	DB        *sql.DB
	Sources   *storage.SourceRepo
	Documents *storage.DocumentRepo
	Vectors   *vectorstore.QdrantStore
	Graph     *graph.Neo4jStore
	Embedder  *llm.EmbeddingsClient
	LLM       *llm.Client

	// Recognizer is nil when no recognizer could be built; only vector-only
	// retrieval works then.
	Recognizer retrieval.EntityRecognizer
	// NERService is set when the recognizer is the HTTP service.
	NERService *ner.HTTPRecognizer

	Semantic *corpus.SemanticIndex
	Indexer  *corpus.Indexer
	Engine   *retrieval.Engine
	Query    service.QueryService
}

// New opens the stores and builds the services. An unreachable graph is logged
// and tolerated; a broken SQLite database, Qdrant or embedding server is fatal.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	if err := storage.Migrate(db); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a.Sources = storage.NewSourceRepo(db)
	a.Documents = storage.NewDocumentRepo(db)
	logger.InfoContext(ctx, "database initialized", "path", cfg.DBPath)

	vectors, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Vectors = vectors
	if err := vectors.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}
	logger.InfoContext(ctx, "qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	a.Embedder = llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	if err := a.Embedder.Validate(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	logger.InfoContext(ctx, "embedding client validated", "model", cfg.EmbeddingModelName)

	a.LLM = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	store, err := graph.NewNeo4jStore(cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Graph = store
	if err := store.VerifyConnectivity(ctx); err != nil {
		logger.WarnContext(ctx, "graph store unreachable; graph strategies will fail until it recovers", "uri", cfg.Neo4jURI, "error", err)
	}

	a.Recognizer, a.NERService = buildRecognizer(ctx, cfg, store)

	a.Semantic = corpus.NewSemanticIndex(a.Embedder, vectors, a.Documents, cfg.QdrantCollection)
	a.Indexer = corpus.NewIndexer(a.Sources, a.Documents, a.Embedder, vectors, cfg.QdrantCollection, corpus.DefaultBatchSize)

	a.Engine = retrieval.NewEngine(a.Recognizer, store, a.Semantic, retrieval.Options{
		K:           cfg.RetrievalK,
		RRFMode:     cfg.RRFMode,
		RRFConstant: cfg.RRFConstant,
		FusionKey:   cfg.FusionKey,
	})
	a.Query = service.NewQueryService(a.Engine, a.LLM)

	logger.InfoContext(ctx, "retrieval engine initialized",
		"k", cfg.RetrievalK,
		"rrf_mode", cfg.RRFMode,
		"rrf_constant", cfg.RRFConstant,
		"fusion_key", cfg.FusionKey,
		"ner_provider", cfg.NERProvider,
	)
	return a, nil
}

// buildRecognizer returns the configured recognizer. A gazetteer that cannot be
// loaded yields nil.
func buildRecognizer(ctx context.Context, cfg *config.Config, names ner.NameSource) (retrieval.EntityRecognizer, *ner.HTTPRecognizer) {
	logger := contextutil.LoggerFromContext(ctx)

	if cfg.NERProvider == config.NERProviderHTTP {
		svc := ner.NewHTTPRecognizer(cfg.NERBaseURL, cfg.NERLabels, ner.DefaultBreakerSettings())
		logger.InfoContext(ctx, "using HTTP entity recognizer", "base_url", cfg.NERBaseURL)
		return svc, svc
	}

	gaz, err := ner.LoadGazetteer(ctx, names)
	if err != nil {
		logger.WarnContext(ctx, "gazetteer unavailable; only vector_only retrieval will work", "error", err)
		return nil, nil
	}
	if gaz.Len() == 0 {
		logger.WarnContext(ctx, "gazetteer is empty; seed the graph first")
	}
	logger.InfoContext(ctx, "using gazetteer entity recognizer", "names", gaz.Len())
	return gaz, nil
}

// IndexCorpus indexes the corpus file at path, or every corpus file below it when
// path is a directory. Each file is a source named by its path relative to path.
func (a *App) IndexCorpus(ctx context.Context, path string) (corpus.IndexStats, error) {
	var total corpus.IndexStats
	if path == "" {
		return total, errors.New("no corpus path configured")
	}

	files, err := corpus.Scan(ctx, path)
	if err != nil {
		return total, err
	}

	for _, f := range files {
		docs, err := corpus.Load(f.AbsPath)
		if err != nil {
			return total, err
		}
		stats, err := a.Indexer.Index(ctx, f.Name, f.AbsPath, docs)
		total.Add(stats)
		if err != nil {
			return total, fmt.Errorf("failed to index %s: %w", f.Name, err)
		}
	}
	return total, nil
}

// Close releases every opened resource.
func (a *App) Close(ctx context.Context) {
	logger := contextutil.LoggerFromContext(ctx)

	if a.Graph != nil {
		if err := a.Graph.Close(ctx); err != nil {
			logger.WarnContext(ctx, "failed to close graph store", "error", err)
		}
	}
	if a.Vectors != nil {
		if err := a.Vectors.Close(); err != nil {
			logger.WarnContext(ctx, "failed to close qdrant client", "error", err)
		}
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
