package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"georag/internal/app"
	"georag/internal/corpus"
	"georag/internal/domain"
	"georag/internal/storage"
	"georag/internal/vectorstore"
)

const statusTimeout = 30 * time.Second

// collectionInspector describes the vector collection.
type collectionInspector interface {
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
	Count(ctx context.Context, collection string) (int, error)
}

// graphInspector checks and summarizes the knowledge graph.
type graphInspector interface {
	VerifyConnectivity(ctx context.Context) error
	NodeCounts(ctx context.Context) (map[string]int, error)
}

type statusSources struct {
	vectors    collectionInspector
	graph      graphInspector
	sources    corpus.SourceLister
	docs       storage.DocumentStore
	collection string
	vectorSize int
}

type statusReport struct {
	Collection   *vectorstore.CollectionInfo `json:"collection"`
	SizeMismatch bool                        `json:"size_mismatch,omitempty"`
	Points       int                         `json:"points"`
	OutOfSync    bool                        `json:"out_of_sync,omitempty"`
	Coverage     *corpus.CoverageStats       `json:"coverage"`
	GraphHealthy bool                        `json:"graph_healthy"`
	GraphError   string                      `json:"graph_error,omitempty"`
	Nodes        map[string]int              `json:"nodes,omitempty"`
}

func newStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is indexed and whether the graph is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
			defer cancel()

			return g.withApp(ctx, func(a *app.App) error {
				report, err := collectStatus(ctx, statusSources{
					vectors:    a.Vectors,
					graph:      a.Graph,
					sources:    a.Sources,
					docs:       a.Documents,
					collection: a.Config.QdrantCollection,
					vectorSize: a.Config.QdrantVectorSize,
				})
				if err != nil {
					return err
				}
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printStatus(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func collectStatus(ctx context.Context, src statusSources) (*statusReport, error) {
	info, err := src.vectors.GetCollectionInfo(ctx, src.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}
	report := &statusReport{
		Collection:   info,
		SizeMismatch: info.VectorSize != 0 && info.VectorSize != src.vectorSize,
	}

	// PointsCount in the collection info is approximate.
	if report.Points, err = src.vectors.Count(ctx, src.collection); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
	}

	if report.Coverage, err = corpus.Coverage(ctx, src.sources, src.docs); err != nil {
		return nil, err
	}
	report.OutOfSync = report.Points != report.Coverage.Documents

	if err := src.graph.VerifyConnectivity(ctx); err != nil {
		report.GraphError = err.Error()
		return report, nil
	}
	report.GraphHealthy = true
	if report.Nodes, err = src.graph.NodeCounts(ctx); err != nil {
		report.GraphError = err.Error()
	}
	return report, nil
}

func printStatus(out io.Writer, report *statusReport) {
	c := report.Collection
	fmt.Fprintf(out, "collection: %s (%d points, vector size %d, %s)\n", c.Name, report.Points, c.VectorSize, c.Status)
	if report.SizeMismatch {
		fmt.Fprintln(out, "            vector size differs from QDRANT_VECTOR_SIZE")
	}
	fmt.Fprintf(out, "documents:  %d\n", report.Coverage.Documents)
	if report.OutOfSync {
		fmt.Fprintln(out, "            document count differs from points; rerun index")
	}
	for _, src := range report.Coverage.Sources {
		fmt.Fprintf(out, "  %-30s %5d  %s\n", src.Name, src.Documents, src.Path)
	}
	ts := report.Coverage.TokenStats
	fmt.Fprintf(out, "tokens/doc: min=%d max=%d mean=%.2f p95=%d\n", ts.Min, ts.Max, ts.Mean, ts.P95)

	if !report.GraphHealthy {
		fmt.Fprintf(out, "graph:      unavailable (%s)\n", report.GraphError)
		return
	}
	fmt.Fprintln(out, "graph:      ok")
	labels := make([]string, 0, len(report.Nodes))
	for label := range report.Nodes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(out, "  %-30s %5d\n", label, report.Nodes[label])
	}
}
