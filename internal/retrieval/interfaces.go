package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retrieval.go -package=mocks georag/internal/retrieval EntityRecognizer,GraphStore,VectorIndex

import (
	"context"

	"georag/internal/domain"
)

// EntityRecognizer extracts candidate entity names from free text.
// This interface is defined from the engine's perspective (consumer-first).
type EntityRecognizer interface {
	// ExtractEntities returns entity surface forms in the order the recognizer reports them.
	// Empty text yields an empty result.
	ExtractEntities(ctx context.Context, text string) ([]string, error)
}

// GraphStore answers one-hop neighborhood lookups.
type GraphStore interface {
	// OneHop returns every edge touching the node whose name equals entity exactly,
	// in either direction, in store order. An unknown entity yields no facts and no error.
	// Errors wrapping domain.ErrGraphUnavailable mean the store itself is unreachable.
	OneHop(ctx context.Context, entity string) ([]domain.Fact, error)
}

// VectorIndex performs similarity search over the text corpus.
type VectorIndex interface {
	// Retrieve returns at most k documents, most similar first.
	Retrieve(ctx context.Context, text string, k int) ([]domain.Document, error)
}
