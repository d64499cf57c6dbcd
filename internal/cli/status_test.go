package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"georag/internal/domain"
	"georag/internal/storage"
	"georag/internal/vectorstore"
)

type fakeCollection struct {
	info   *vectorstore.CollectionInfo
	points int
	err    error
}

func (f fakeCollection) GetCollectionInfo(context.Context, string) (*vectorstore.CollectionInfo, error) {
	return f.info, f.err
}

func (f fakeCollection) Count(context.Context, string) (int, error) { return f.points, f.err }

type fakeGraph struct {
	pingErr error
	nodes   map[string]int
}

func (f fakeGraph) VerifyConnectivity(context.Context) error { return f.pingErr }

func (f fakeGraph) NodeCounts(context.Context) (map[string]int, error) { return f.nodes, nil }

func newStatusSources(t *testing.T, vectors collectionInspector, graph graphInspector) statusSources {
	t.Helper()
	db, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return statusSources{
		vectors:    vectors,
		graph:      graph,
		sources:    storage.NewSourceRepo(db),
		docs:       storage.NewDocumentRepo(db),
		collection: "georag_corpus",
		vectorSize: 384,
	}
}

func TestCollectStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		src := newStatusSources(t,
			fakeCollection{info: &vectorstore.CollectionInfo{Name: "georag_corpus", VectorSize: 384, PointsCount: 10, Status: "green"}, points: 12},
			fakeGraph{nodes: map[string]int{"Country": 45, "River": 3}},
		)

		report, err := collectStatus(ctx, src)
		if err != nil {
			t.Fatalf("collectStatus() error = %v", err)
		}
		if !report.GraphHealthy || report.Nodes["Country"] != 45 || report.SizeMismatch {
			t.Errorf("unexpected report: %+v", report)
		}
		// Points without documents means SQLite lost track of the vectors.
		if report.Points != 12 || !report.OutOfSync {
			t.Errorf("Points = %d, OutOfSync = %v; want 12, true", report.Points, report.OutOfSync)
		}

		var out bytes.Buffer
		printStatus(&out, report)
		for _, want := range []string{"12 points", "vector size 384", "rerun index", "graph:      ok", "Country"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("status output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("graph down and size mismatch", func(t *testing.T) {
		src := newStatusSources(t,
			fakeCollection{info: &vectorstore.CollectionInfo{Name: "georag_corpus", VectorSize: 768, Status: "green"}},
			fakeGraph{pingErr: errors.New("connection refused")},
		)

		report, err := collectStatus(ctx, src)
		if err != nil {
			t.Fatalf("collectStatus() error = %v", err)
		}
		if report.GraphHealthy || report.GraphError == "" || !report.SizeMismatch || report.OutOfSync {
			t.Errorf("unexpected report: %+v", report)
		}
	})

	t.Run("collection unavailable", func(t *testing.T) {
		src := newStatusSources(t, fakeCollection{err: errors.New("no such collection")}, fakeGraph{})

		if _, err := collectStatus(ctx, src); !errors.Is(err, domain.ErrRetrievalUnavailable) {
			t.Fatalf("collectStatus() error = %v, want ErrRetrievalUnavailable", err)
		}
	})
}
