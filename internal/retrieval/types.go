package retrieval

import (
	"errors"
	"fmt"

	"georag/internal/domain"
)

// DefaultK is the number of documents requested from the vector channel when
// neither the request nor the engine options specify one.
const DefaultK = 5

var (
	// ErrUnknownStrategy is returned for a strategy name the engine does not know.
	ErrUnknownStrategy = errors.New("unknown retrieval strategy")
	// ErrEmptyQuery is returned when the query text is empty.
	ErrEmptyQuery = errors.New("query is empty")
)

// Strategy names one retrieval mode.
type Strategy string

const (
	// StrategyGraphOnly renders one-hop facts for the recognized entities.
	StrategyGraphOnly Strategy = "graph_only"
	// StrategyVectorOnly renders the documents most similar to the raw query.
	StrategyVectorOnly Strategy = "vector_only"
	// StrategyNaiveHybrid concatenates graph-only and vector-only output.
	StrategyNaiveHybrid Strategy = "naive_hybrid"
	// StrategyEntityDriven feeds graph-discovered entity names back into the vector query.
	StrategyEntityDriven Strategy = "entity_driven"
	// StrategyFusionRanked merges facts and documents with reciprocal rank fusion.
	StrategyFusionRanked Strategy = "fusion_ranked"
)

// Strategies returns every strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyGraphOnly,
		StrategyVectorOnly,
		StrategyNaiveHybrid,
		StrategyEntityDriven,
		StrategyFusionRanked,
	}
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Options configures an Engine.
type Options struct {
	// K is the default document count. Zero means DefaultK.
	K int
	// RRFMode chooses the fusion constant for the fusion-ranked strategy.
	RRFMode RRFMode
	// RRFConstant is the constant used by RRFCanonical. Zero means DefaultRRFConstant.
	RRFConstant int
	// FusionKey chooses the identity fused items accumulate score under.
	FusionKey KeyMode
}

// Request is one retrieval call.
type Request struct {
	Query    string
	Strategy Strategy
	// K overrides Options.K when positive.
	K int
}

// FusedItem is one entry of a fused ranking.
type FusedItem struct {
	Display string  `json:"display"`
	Score   float64 `json:"score"`
}

// Result carries the rendered context and the intermediates that produced it.
type Result struct {
	Strategy Strategy `json:"strategy"`
	// Context is the rendered, section-labeled block handed to the prompt.
	Context   string            `json:"context"`
	Entities  []string          `json:"entities,omitempty"`
	Facts     []domain.Fact     `json:"facts,omitempty"`
	Documents []domain.Document `json:"documents,omitempty"`
	// AugmentedQuery is the vector query used by the entity-driven strategy.
	AugmentedQuery string `json:"augmented_query,omitempty"`
	// Fused is the fusion ranking (fusion-ranked strategy only).
	Fused []FusedItem `json:"fused,omitempty"`
	// FailedEntities lists entities whose graph lookup failed and was skipped.
	FailedEntities []string `json:"failed_entities,omitempty"`
	// NoEntities reports that recognition found nothing.
	NoEntities bool `json:"no_entities"`
	// NoFacts reports that no recognized entity matched a graph node.
	NoFacts bool `json:"no_facts"`
}
