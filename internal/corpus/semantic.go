package corpus

import (
	"context"
	"fmt"

	"georag/internal/contextutil"
	"georag/internal/domain"
	"georag/internal/storage"
	"georag/internal/vectorstore"
)

// SemanticIndex answers similarity queries against the indexed corpus.
type SemanticIndex struct {
	embedder   Embedder
	vectors    vectorstore.VectorStore
	docs       storage.DocumentStore
	collection string
	filters    map[string]any
}

// NewSemanticIndex creates a SemanticIndex over collection.
func NewSemanticIndex(embedder Embedder, vectors vectorstore.VectorStore, docs storage.DocumentStore, collection string) *SemanticIndex {
	return &SemanticIndex{
		embedder:   embedder,
		vectors:    vectors,
		docs:       docs,
		collection: collection,
	}
}

// WithSource returns a copy restricted to documents of one corpus source.
func (s *SemanticIndex) WithSource(name string) *SemanticIndex {
	c := *s
	c.filters = map[string]any{vectorstore.PayloadSource: name}
	return &c
}

// Retrieve returns up to k documents most similar to text, best first.
// An empty corpus is domain.ErrEmptyCorpus; every other failure wraps
// domain.ErrRetrievalUnavailable.
func (s *SemanticIndex) Retrieve(ctx context.Context, text string, k int) ([]domain.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return []domain.Document{}, nil
	}

	n, err := s.docs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	if n == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	vecs, err := s.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %w", domain.ErrRetrievalUnavailable, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query embedding, got %d", domain.ErrRetrievalUnavailable, len(vecs))
	}

	hits, err := s.vectors.Search(ctx, s.collection, vecs[0], k, s.filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.PointID
	}
	records, err := s.docs.GetByPointIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}

	docs := make([]domain.Document, 0, len(hits))
	for _, h := range hits {
		rec, ok := records[h.PointID]
		if !ok {
			logger.WarnContext(ctx, "vector hit has no stored text", "point_id", h.PointID)
			continue
		}
		docs = append(docs, domain.Document{ID: rec.DocID, Text: rec.Text})
		if len(docs) == k {
			break
		}
	}

	logger.DebugContext(ctx, "semantic search completed", "k", k, "hits", len(hits), "documents", len(docs))
	return docs, nil
}
