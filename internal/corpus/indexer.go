package corpus

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_corpus.go -package=mocks georag/internal/corpus Embedder,SourceStore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"georag/internal/contextutil"
	"georag/internal/domain"
	"georag/internal/storage"
	"georag/internal/vectorstore"
)

// DefaultBatchSize is the number of documents embedded per request.
const DefaultBatchSize = 32

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SourceStore registers corpus files.
type SourceStore interface {
	GetOrCreateByName(ctx context.Context, name, path string) (storage.Source, error)
}

// IndexStats summarizes one Index call.
type IndexStats struct {
	// Processed is the number of documents read.
	Processed int `json:"processed"`
	// Embedded is the number of documents embedded and stored.
	Embedded int `json:"embedded"`
	// Skipped is the number of documents whose text was already indexed.
	Skipped int `json:"skipped"`
	// Batches is the number of embedding requests made.
	Batches int `json:"batches"`
	// Removed is the number of previously indexed documents no longer in the source.
	Removed int `json:"removed"`
}

// Add accumulates other into s.
func (s *IndexStats) Add(other IndexStats) {
	s.Processed += other.Processed
	s.Embedded += other.Embedded
	s.Skipped += other.Skipped
	s.Batches += other.Batches
	s.Removed += other.Removed
}

// Indexer embeds corpus documents into Qdrant and keeps their text in SQLite.
type Indexer struct {
	sources    SourceStore
	docs       storage.DocumentStore
	embedder   Embedder
	vectors    vectorstore.VectorStore
	collection string
	batchSize  int
}

// NewIndexer creates a new Indexer. batchSize <= 0 means DefaultBatchSize.
func NewIndexer(
	sources SourceStore,
	docs storage.DocumentStore,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	collection string,
	batchSize int,
) *Indexer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Indexer{
		sources:    sources,
		docs:       docs,
		embedder:   embedder,
		vectors:    vectors,
		collection: collection,
		batchSize:  batchSize,
	}
}

type pending struct {
	doc      domain.Document
	position int
	hash     string
}

// Index stores docs under the source name. Documents whose text hash is unchanged
// since the last run are skipped, and documents of the source that are no longer
// in docs are removed from both stores.
func (ix *Indexer) Index(ctx context.Context, name, path string, docs []domain.Document) (IndexStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stats := IndexStats{Processed: len(docs)}

	source, err := ix.sources.GetOrCreateByName(ctx, name, path)
	if err != nil {
		return stats, fmt.Errorf("failed to register source: %w", err)
	}

	var todo []pending
	for i, doc := range docs {
		hash := fmt.Sprintf("%x", sha256.Sum256([]byte(doc.Text)))

		existing, err := ix.docs.GetBySourceAndDocID(ctx, source.ID, doc.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return stats, fmt.Errorf("failed to check existing document: %w", err)
		}
		if existing != nil && existing.Hash == hash && existing.Position == i {
			logger.DebugContext(ctx, "skipping unchanged document", "doc_id", doc.ID)
			stats.Skipped++
			continue
		}
		todo = append(todo, pending{doc: doc, position: i, hash: hash})
	}

	logger.InfoContext(ctx, "starting indexing",
		"source", name,
		"documents", len(docs),
		"to_embed", len(todo),
	)

	for start := 0; start < len(todo); start += ix.batchSize {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		end := min(start+ix.batchSize, len(todo))
		if err := ix.indexBatch(ctx, source, todo[start:end]); err != nil {
			return stats, err
		}
		stats.Batches++
		stats.Embedded += end - start
	}

	removed, err := ix.prune(ctx, source, docs)
	if err != nil {
		return stats, err
	}
	stats.Removed = removed

	logger.InfoContext(ctx, "indexing completed",
		"source", name,
		"processed", stats.Processed,
		"embedded", stats.Embedded,
		"skipped", stats.Skipped,
		"batches", stats.Batches,
		"removed", stats.Removed,
	)
	return stats, nil
}

// prune deletes stored documents of source whose id is not in docs.
func (ix *Indexer) prune(ctx context.Context, source storage.Source, docs []domain.Document) (int, error) {
	existing, err := ix.docs.ListBySource(ctx, source.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list indexed documents: %w", err)
	}

	keep := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		keep[d.ID] = struct{}{}
	}

	var stale []string
	for _, rec := range existing {
		if _, ok := keep[rec.DocID]; !ok {
			stale = append(stale, rec.PointID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := ix.vectors.Delete(ctx, ix.collection, stale); err != nil {
		return 0, fmt.Errorf("failed to delete stale vectors: %w", err)
	}
	if err := ix.docs.DeleteByPointIDs(ctx, stale); err != nil {
		return 0, fmt.Errorf("failed to delete stale documents: %w", err)
	}
	return len(stale), nil
}

func (ix *Indexer) indexBatch(ctx context.Context, source storage.Source, batch []pending) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.doc.Text
	}

	embeddings, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	points := make([]vectorstore.Point, len(batch))
	for i, p := range batch {
		points[i] = vectorstore.Point{
			ID:  PointID(source.Name, p.doc.ID),
			Vec: embeddings[i],
			Meta: map[string]any{
				vectorstore.PayloadDocID:  p.doc.ID,
				vectorstore.PayloadSource: source.Name,
				"position":                p.position,
			},
		}
	}

	// The stored hash marks a document as indexed, so it is written only once
	// the vectors are in place.
	if err := ix.vectors.Upsert(ctx, ix.collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	for i, p := range batch {
		if err := ix.docs.Upsert(ctx, &storage.DocumentRecord{
			PointID:  points[i].ID,
			SourceID: source.ID,
			DocID:    p.doc.ID,
			Position: p.position,
			Text:     p.doc.Text,
			Hash:     p.hash,
		}); err != nil {
			return fmt.Errorf("failed to store document %q: %w", p.doc.ID, err)
		}
	}
	return nil
}
