package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/mock/gomock"

	"georag/internal/domain"
	"georag/internal/retrieval/mocks"
)

type engineMocks struct {
	recognizer *mocks.MockEntityRecognizer
	graph      *mocks.MockGraphStore
	vectors    *mocks.MockVectorIndex
}

func newTestEngine(t *testing.T, opts Options) (*Engine, engineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := engineMocks{
		recognizer: mocks.NewMockEntityRecognizer(ctrl),
		graph:      mocks.NewMockGraphStore(ctrl),
		vectors:    mocks.NewMockVectorIndex(ctrl),
	}
	return NewEngine(m.recognizer, m.graph, m.vectors, opts), m
}

var (
	germanyFacts = []domain.Fact{
		{Subject: "Germany", Relation: "HAS_CAPITAL", Object: "Berlin"},
		{Subject: "Germany", Relation: "BORDERS_WITH", Object: "Poland"},
	}
	germanyDocs = []domain.Document{
		{ID: "1", Text: "Berlin is the capital of Germany."},
		{ID: "2", Text: "Germany borders nine countries."},
	}
)

func TestEngine_GraphOnly(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), "Tell me about Germany").Return([]string{"Germany"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Germany").Return(germanyFacts, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "Tell me about Germany", Strategy: StrategyGraphOnly})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	want := "--- Knowledge Graph Facts ---\n" +
		"[KG] [Germany] -[:HAS_CAPITAL]-> [Berlin]\n" +
		"[KG] [Germany] -[:BORDERS_WITH]-> [Poland]"
	if res.Context != want {
		t.Errorf("Context =\n%q\nwant\n%q", res.Context, want)
	}
	if res.Strategy != StrategyGraphOnly || res.NoFacts || res.NoEntities {
		t.Errorf("unexpected result flags: %+v", res)
	}
}

func TestEngine_GraphOnlyUnknownEntity(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return([]string{"Atlantis"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Atlantis").Return([]domain.Fact{}, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "Where is Atlantis?", Strategy: StrategyGraphOnly})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if want := HeaderFacts + "\n" + NoFactsPlaceholder; res.Context != want {
		t.Errorf("Context = %q, want %q", res.Context, want)
	}
	if !res.NoFacts {
		t.Error("NoFacts = false, want true")
	}
}

func TestEngine_VectorOnly(t *testing.T) {
	engine, m := newTestEngine(t, Options{K: 3})
	m.vectors.EXPECT().Retrieve(gomock.Any(), "capital of Germany", 3).Return(germanyDocs, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "capital of Germany", Strategy: StrategyVectorOnly})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	want := "--- Related Descriptions ---\n" +
		"[TEXT] Berlin is the capital of Germany.\n" +
		"[TEXT] Germany borders nine countries."
	if res.Context != want {
		t.Errorf("Context =\n%q\nwant\n%q", res.Context, want)
	}
}

func TestEngine_VectorOnlyTruncatesToK(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), 1).Return(germanyDocs, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyVectorOnly, K: 1})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(res.Documents) != 1 {
		t.Errorf("got %d documents, want 1", len(res.Documents))
	}
}

func TestEngine_NaiveHybrid(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return([]string{"Germany"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Germany").Return(germanyFacts, nil)
	m.vectors.EXPECT().Retrieve(gomock.Any(), "Germany?", DefaultK).Return(germanyDocs, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "Germany?", Strategy: StrategyNaiveHybrid})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	want := "--- Knowledge Graph Facts ---\n" +
		"[KG] [Germany] -[:HAS_CAPITAL]-> [Berlin]\n" +
		"[KG] [Germany] -[:BORDERS_WITH]-> [Poland]\n" +
		"\n" +
		"--- Related Descriptions ---\n" +
		"[TEXT] Berlin is the capital of Germany.\n" +
		"[TEXT] Germany borders nine countries."
	if res.Context != want {
		t.Errorf("Context =\n%q\nwant\n%q", res.Context, want)
	}
}

func TestEngine_NaiveHybridGraphFailureFailsCall(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return([]string{"Germany"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Germany").Return(nil, domain.ErrGraphUnavailable)
	m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(germanyDocs, nil).AnyTimes()

	_, err := engine.Retrieve(context.Background(), Request{Query: "Germany?", Strategy: StrategyNaiveHybrid})
	if !errors.Is(err, domain.ErrGraphUnavailable) {
		t.Fatalf("Retrieve() error = %v, want ErrGraphUnavailable", err)
	}
}

func TestEngine_EntityDrivenAugmentsQuery(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	facts := []domain.Fact{
		{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Rhine"},
		{Subject: "Germany", Relation: "FLOWS_THROUGH", Object: "Danube"},
	}
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), "Which rivers flow through Germany?").Return([]string{"Germany"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Germany").Return(facts, nil)
	m.vectors.EXPECT().
		Retrieve(gomock.Any(), "Which rivers flow through Germany? Danube Germany Rhine", DefaultK).
		Return([]domain.Document{{ID: "7", Text: "The Danube crosses ten countries."}}, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "Which rivers flow through Germany?", Strategy: StrategyEntityDriven})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	want := "--- Knowledge Graph Facts ---\n" +
		"[KG] [Germany] -[:FLOWS_THROUGH]-> [Rhine]\n" +
		"[KG] [Germany] -[:FLOWS_THROUGH]-> [Danube]\n" +
		"\n" +
		"--- Related Descriptions (Entities focussed) ---\n" +
		"[TEXT] The Danube crosses ten countries."
	if res.Context != want {
		t.Errorf("Context =\n%q\nwant\n%q", res.Context, want)
	}
	if res.AugmentedQuery != "Which rivers flow through Germany? Danube Germany Rhine" {
		t.Errorf("AugmentedQuery = %q", res.AugmentedQuery)
	}
}

func TestEngine_EntityDrivenWithoutEntitiesMatchesVectorOnly(t *testing.T) {
	const query = "what is the weather like"

	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), query).Return([]string{}, nil)
	m.vectors.EXPECT().Retrieve(gomock.Any(), query, DefaultK).Return(germanyDocs, nil).Times(2)

	degenerate, err := engine.Retrieve(context.Background(), Request{Query: query, Strategy: StrategyEntityDriven})
	if err != nil {
		t.Fatalf("entity-driven Retrieve() error = %v", err)
	}
	vector, err := engine.Retrieve(context.Background(), Request{Query: query, Strategy: StrategyVectorOnly})
	if err != nil {
		t.Fatalf("vector-only Retrieve() error = %v", err)
	}

	if degenerate.Context != vector.Context {
		t.Errorf("entity-driven context differs from vector-only:\n%q\n%q", degenerate.Context, vector.Context)
	}
	if !degenerate.NoEntities {
		t.Error("NoEntities = false, want true")
	}
}

func TestEngine_FusionRankedTieKeepsFactFirst(t *testing.T) {
	engine, m := newTestEngine(t, Options{})
	m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return([]string{"Germany"}, nil)
	m.graph.EXPECT().OneHop(gomock.Any(), "Germany").
		Return([]domain.Fact{{Subject: "Germany", Relation: "BORDERS_WITH", Object: "Poland"}}, nil)
	m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.Document{{ID: "1", Text: "Germany is in Europe."}}, nil)

	res, err := engine.Retrieve(context.Background(), Request{Query: "Germany?", Strategy: StrategyFusionRanked})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(res.Fused) != 2 {
		t.Fatalf("Fused has %d items, want 2", len(res.Fused))
	}
	if res.Fused[0].Display != "[KG] [Germany] -[:BORDERS_WITH]-> [Poland]" {
		t.Errorf("Fused[0] = %q", res.Fused[0].Display)
	}
	if res.Fused[1].Display != "[TEXT] Germany is in Europe." {
		t.Errorf("Fused[1] = %q", res.Fused[1].Display)
	}
	if res.Fused[0].Score != res.Fused[1].Score {
		t.Errorf("scores %v and %v should tie", res.Fused[0].Score, res.Fused[1].Score)
	}
	want := "--- Knowledge Graph Facts ---\n" +
		"[KG] [Germany] -[:BORDERS_WITH]-> [Poland]\n" +
		"\n" +
		"--- Related Descriptions ---\n" +
		"[TEXT] Germany is in Europe."
	if res.Context != want {
		t.Errorf("Context =\n%q\nwant\n%q", res.Context, want)
	}
}

func TestEngine_FusionRankedConstantModes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		k    int
		want float64
	}{
		{name: "canonical", opts: Options{}, k: 2, want: 1.0 / 61},
		{name: "canonical custom", opts: Options{RRFConstant: 10}, k: 2, want: 1.0 / 11},
		{name: "result count", opts: Options{RRFMode: RRFResultCount}, k: 2, want: 1.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, m := newTestEngine(t, tt.opts)
			m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return(nil, nil)
			m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), tt.k).Return(germanyDocs, nil)

			res, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyFusionRanked, K: tt.k})
			if err != nil {
				t.Fatalf("Retrieve() error = %v", err)
			}
			if len(res.Fused) == 0 {
				t.Fatal("Fused is empty")
			}
			if math.Abs(res.Fused[0].Score-tt.want) > 1e-12 {
				t.Errorf("top score = %v, want %v", res.Fused[0].Score, tt.want)
			}
			if !res.NoEntities {
				t.Error("NoEntities = false, want true")
			}
		})
	}
}

func TestEngine_NilRecognizer(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := mocks.NewMockVectorIndex(ctrl)
	vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(germanyDocs, nil).AnyTimes()
	engine := NewEngine(nil, nil, vectors, Options{})

	if _, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyVectorOnly}); err != nil {
		t.Fatalf("vector-only Retrieve() error = %v", err)
	}

	for _, s := range []Strategy{StrategyGraphOnly, StrategyNaiveHybrid, StrategyEntityDriven, StrategyFusionRanked} {
		_, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: s})
		if !errors.Is(err, domain.ErrRecognitionUnavailable) {
			t.Errorf("%s: error = %v, want ErrRecognitionUnavailable", s, err)
		}
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Run("recognizer failure", func(t *testing.T) {
		engine, m := newTestEngine(t, Options{})
		m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return(nil, errors.New("model not loaded"))

		_, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyGraphOnly})
		if !errors.Is(err, domain.ErrRecognitionUnavailable) {
			t.Fatalf("error = %v, want ErrRecognitionUnavailable", err)
		}
	})

	t.Run("cancelled recognition", func(t *testing.T) {
		engine, m := newTestEngine(t, Options{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m.recognizer.EXPECT().ExtractEntities(gomock.Any(), gomock.Any()).Return(nil, context.Canceled)

		_, err := engine.Retrieve(ctx, Request{Query: "q", Strategy: StrategyGraphOnly})
		if !errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrRecognitionUnavailable) {
			t.Fatalf("error = %v, want bare context.Canceled", err)
		}
	})

	t.Run("vector failure", func(t *testing.T) {
		engine, m := newTestEngine(t, Options{})
		m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyVectorOnly})
		if !errors.Is(err, domain.ErrRetrievalUnavailable) {
			t.Fatalf("error = %v, want ErrRetrievalUnavailable", err)
		}
	})

	t.Run("empty corpus", func(t *testing.T) {
		engine, m := newTestEngine(t, Options{})
		m.vectors.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrEmptyCorpus)

		_, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: StrategyVectorOnly})
		if !errors.Is(err, domain.ErrEmptyCorpus) {
			t.Fatalf("error = %v, want ErrEmptyCorpus", err)
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		engine, _ := newTestEngine(t, Options{})
		_, err := engine.Retrieve(context.Background(), Request{Query: "q", Strategy: "graph_plus"})
		if !errors.Is(err, ErrUnknownStrategy) {
			t.Fatalf("error = %v, want ErrUnknownStrategy", err)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		engine, _ := newTestEngine(t, Options{})
		_, err := engine.Retrieve(context.Background(), Request{Query: "  ", Strategy: StrategyVectorOnly})
		if !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("error = %v, want ErrEmptyQuery", err)
		}
	})
}
