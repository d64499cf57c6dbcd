package retrieval

import (
	"context"
	"errors"
	"fmt"

	"georag/internal/contextutil"
	"georag/internal/domain"
)

// FactSet is the outcome of expanding a list of entities.
type FactSet struct {
	// Facts in entity-input order, then store order per entity.
	Facts []domain.Fact
	// Failed lists entities whose lookup errored and was treated as zero facts.
	Failed []string
}

// FactFetcher expands entity names into their one-hop graph neighborhoods.
type FactFetcher struct {
	store GraphStore
}

// NewFactFetcher creates a FactFetcher backed by store.
func NewFactFetcher(store GraphStore) *FactFetcher {
	return &FactFetcher{store: store}
}

// Fetch issues one OneHop lookup per entity and concatenates the results.
// A failed lookup for a single entity is logged and contributes no facts.
// Only an unreachable store (domain.ErrGraphUnavailable) or a cancelled context
// fails the whole call.
func (f *FactFetcher) Fetch(ctx context.Context, entities []string) (FactSet, error) {
	logger := contextutil.LoggerFromContext(ctx)

	set := FactSet{Facts: []domain.Fact{}}
	if len(entities) == 0 {
		return set, nil
	}
	if f.store == nil {
		return FactSet{}, fmt.Errorf("no graph store configured: %w", domain.ErrGraphUnavailable)
	}

	for _, entity := range entities {
		facts, err := f.store.OneHop(ctx, entity)
		if err != nil {
			if errors.Is(err, domain.ErrGraphUnavailable) {
				logger.ErrorContext(ctx, "graph store unavailable", "entity", entity, "error", err)
				return FactSet{}, fmt.Errorf("failed to fetch facts for %q: %w", entity, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return FactSet{}, fmt.Errorf("failed to fetch facts for %q: %w", entity, ctxErr)
			}
			logger.WarnContext(ctx, "graph lookup failed, treating entity as unmatched", "entity", entity, "error", err)
			set.Failed = append(set.Failed, entity)
			continue
		}

		logger.DebugContext(ctx, "entity expanded", "entity", entity, "facts", len(facts))
		set.Facts = append(set.Facts, facts...)
	}

	return set, nil
}
