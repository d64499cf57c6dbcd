package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"georag/internal/contextutil"
	"georag/internal/domain"
)

// Engine composes entity recognition, graph expansion, vector retrieval, fusion and
// rendering into the named retrieval strategies. It holds no per-query state and is
// safe for concurrent use as long as its collaborators are.
type Engine struct {
	recognizer EntityRecognizer
	facts      *FactFetcher
	vectors    VectorIndex
	opts       Options
}

// NewEngine creates a new Engine. recognizer and graph may be nil, in which case only
// the vector-only strategy succeeds.
func NewEngine(recognizer EntityRecognizer, graph GraphStore, vectors VectorIndex, opts Options) *Engine {
	if opts.K <= 0 {
		opts.K = DefaultK
	}
	if opts.RRFMode == "" {
		opts.RRFMode = RRFCanonical
	}
	if opts.RRFConstant <= 0 {
		opts.RRFConstant = DefaultRRFConstant
	}
	if opts.FusionKey == "" {
		opts.FusionKey = KeyDisplay
	}

	var fetcher *FactFetcher
	if graph != nil {
		fetcher = NewFactFetcher(graph)
	}

	return &Engine{
		recognizer: recognizer,
		facts:      fetcher,
		vectors:    vectors,
		opts:       opts,
	}
}

// Options returns the effective engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// Retrieve runs req.Strategy against req.Query and renders the context block.
func (e *Engine) Retrieve(ctx context.Context, req Request) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Query) == "" {
		return Result{}, ErrEmptyQuery
	}
	k := req.K
	if k <= 0 {
		k = e.opts.K
	}

	logger.InfoContext(ctx, "retrieval started", "strategy", req.Strategy, "k", k)

	var (
		res Result
		err error
	)
	switch req.Strategy {
	case StrategyGraphOnly:
		res, err = e.graphOnly(ctx, req.Query)
	case StrategyVectorOnly:
		res, err = e.vectorOnly(ctx, req.Query, k)
	case StrategyNaiveHybrid:
		res, err = e.naiveHybrid(ctx, req.Query, k)
	case StrategyEntityDriven:
		res, err = e.entityDriven(ctx, req.Query, k)
	case StrategyFusionRanked:
		res, err = e.fusionRanked(ctx, req.Query, k)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "strategy", req.Strategy, "error", err)
		return Result{}, err
	}

	res.Strategy = req.Strategy
	logger.InfoContext(ctx, "retrieval completed",
		"strategy", req.Strategy,
		"entities", len(res.Entities),
		"facts", len(res.Facts),
		"documents", len(res.Documents),
		"context_length", len(res.Context),
	)
	logger.DebugContext(ctx, "rendered context", "context", res.Context)
	return res, nil
}

func (e *Engine) graphOnly(ctx context.Context, query string) (Result, error) {
	entities, set, err := e.expand(ctx, query)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Context:        Render(Displays(set.Facts), LayoutGraphOnly),
		Entities:       entities,
		Facts:          set.Facts,
		FailedEntities: set.Failed,
		NoEntities:     len(entities) == 0,
		NoFacts:        len(set.Facts) == 0,
	}, nil
}

func (e *Engine) vectorOnly(ctx context.Context, query string, k int) (Result, error) {
	docs, err := e.search(ctx, query, k)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Context:   Render(Displays(docs), LayoutVectorOnly),
		Documents: docs,
	}, nil
}

func (e *Engine) naiveHybrid(ctx context.Context, query string, k int) (Result, error) {
	entities, set, docs, err := e.gather(ctx, query, k)
	if err != nil {
		return Result{}, err
	}
	items := append(Displays(set.Facts), Displays(docs)...)
	return Result{
		Context:        Render(items, LayoutHybrid),
		Entities:       entities,
		Facts:          set.Facts,
		Documents:      docs,
		FailedEntities: set.Failed,
		NoEntities:     len(entities) == 0,
		NoFacts:        len(set.Facts) == 0,
	}, nil
}

// entityDriven is strictly sequential: the vector query depends on the graph output.
func (e *Engine) entityDriven(ctx context.Context, query string, k int) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	entities, err := e.recognize(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if len(entities) == 0 {
		logger.InfoContext(ctx, "no entities recognized, falling back to vector-only retrieval")
		res, err := e.vectorOnly(ctx, query, k)
		if err != nil {
			return Result{}, err
		}
		res.NoEntities = true
		return res, nil
	}

	set, err := e.fetch(ctx, entities)
	if err != nil {
		return Result{}, err
	}

	augmented := AugmentQuery(query, set.Facts)
	logger.DebugContext(ctx, "augmented vector query", "query", augmented)

	docs, err := e.search(ctx, augmented, k)
	if err != nil {
		return Result{}, err
	}

	items := append(Displays(set.Facts), Displays(docs)...)
	return Result{
		Context:        Render(items, LayoutEntityDriven),
		Entities:       entities,
		Facts:          set.Facts,
		Documents:      docs,
		AugmentedQuery: augmented,
		FailedEntities: set.Failed,
		NoFacts:        len(set.Facts) == 0,
	}, nil
}

func (e *Engine) fusionRanked(ctx context.Context, query string, k int) (Result, error) {
	entities, set, docs, err := e.gather(ctx, query, k)
	if err != nil {
		return Result{}, err
	}

	factItems := make([]Item, 0, len(set.Facts))
	for _, f := range set.Facts {
		factItems = append(factItems, f)
	}
	docItems := make([]Item, 0, len(docs))
	for _, d := range docs {
		docItems = append(docItems, d)
	}

	ranked := FuseItems([][]Item{factItems, docItems}, e.rrfConstant(k), e.opts.FusionKey)
	fused := make([]FusedItem, len(ranked))
	displays := make([]string, len(ranked))
	for i, r := range ranked {
		displays[i] = r.Item.Display()
		fused[i] = FusedItem{Display: displays[i], Score: r.Score}
	}

	return Result{
		Context:        Render(displays, LayoutHybrid),
		Entities:       entities,
		Facts:          set.Facts,
		Documents:      docs,
		Fused:          fused,
		FailedEntities: set.Failed,
		NoEntities:     len(entities) == 0,
		NoFacts:        len(set.Facts) == 0,
	}, nil
}

// rrfConstant resolves the fusion constant for a call requesting k documents.
func (e *Engine) rrfConstant(k int) int {
	if e.opts.RRFMode == RRFResultCount {
		return k
	}
	return e.opts.RRFConstant
}

// gather runs the graph chain and the raw-query vector search concurrently.
// The two channels never observe each other, so the outcome matches a sequential run.
func (e *Engine) gather(ctx context.Context, query string, k int) ([]string, FactSet, []domain.Document, error) {
	var (
		entities []string
		set      FactSet
		docs     []domain.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, set, err = e.expand(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = e.search(gctx, query, k)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, FactSet{}, nil, err
	}
	return entities, set, docs, nil
}

func (e *Engine) expand(ctx context.Context, query string) ([]string, FactSet, error) {
	entities, err := e.recognize(ctx, query)
	if err != nil {
		return nil, FactSet{}, err
	}
	set, err := e.fetch(ctx, entities)
	if err != nil {
		return nil, FactSet{}, err
	}
	return entities, set, nil
}

func (e *Engine) recognize(ctx context.Context, query string) ([]string, error) {
	if e.recognizer == nil {
		return nil, fmt.Errorf("no entity recognizer configured: %w", domain.ErrRecognitionUnavailable)
	}
	entities, err := e.recognizer.ExtractEntities(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrRecognitionUnavailable) || ctx.Err() != nil {
			return nil, fmt.Errorf("failed to extract entities: %w", err)
		}
		return nil, fmt.Errorf("failed to extract entities: %w: %w", domain.ErrRecognitionUnavailable, err)
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "entities recognized", "entities", entities)
	return entities, nil
}

func (e *Engine) fetch(ctx context.Context, entities []string) (FactSet, error) {
	if e.facts == nil {
		if len(entities) == 0 {
			return FactSet{Facts: []domain.Fact{}}, nil
		}
		return FactSet{}, fmt.Errorf("no graph store configured: %w", domain.ErrGraphUnavailable)
	}
	return e.facts.Fetch(ctx, entities)
}

func (e *Engine) search(ctx context.Context, query string, k int) ([]domain.Document, error) {
	if e.vectors == nil {
		return nil, fmt.Errorf("no vector index configured: %w", domain.ErrRetrievalUnavailable)
	}
	docs, err := e.vectors.Retrieve(ctx, query, k)
	if err != nil {
		if errors.Is(err, domain.ErrRetrievalUnavailable) || errors.Is(err, domain.ErrEmptyCorpus) {
			return nil, fmt.Errorf("failed to retrieve documents: %w", err)
		}
		return nil, fmt.Errorf("failed to retrieve documents: %w: %w", domain.ErrRetrievalUnavailable, err)
	}
	if len(docs) > k {
		docs = docs[:k]
	}
	return docs, nil
}
