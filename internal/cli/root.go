// Package cli contains the georag command line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"georag/internal/app"
	"georag/internal/config"
	"georag/internal/contextutil"
	"georag/internal/graph"
)

// Hooks used by the commands to reach external systems. Tests replace them.
var (
	loadConfig = config.Load

	openApp = app.New

	openGraphWriter = func(cfg *config.Config) (graph.StatementRunner, func(context.Context) error, error) {
		store, err := graph.NewNeo4jStore(cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, cfg.Neo4jDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
)

type globals struct {
	jsonOutput bool
	verbose    bool
	cfg        *config.Config
}

// NewRootCmd builds the georag command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "georag",
		Short: "Hybrid knowledge graph and vector retrieval over European geography",
		Long: `georag combines a Neo4j knowledge graph of countries and rivers with a
Qdrant-backed text corpus and compares retrieval strategies over both.

Example usage:
  georag seed-graph --dataset ./data --clear   # Load countries and rivers into Neo4j
  georag index --corpus ./data/corpus.json     # Embed the text corpus into Qdrant
  georag retrieve "Which rivers flow through Germany?"
  georag compare "What is the capital of Austria?"
  georag status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newSeedGraphCmd(g),
		newIndexCmd(g),
		newRetrieveCmd(g),
		newCompareCmd(g),
		newAskCmd(g),
		newStatusCmd(g),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// init loads configuration and puts a stderr logger into the command context.
func (g *globals) init(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if g.verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	g.cfg = cfg

	logger := app.NewLogger(cfg, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(contextutil.WithLogger(ctx, logger))

	logger.Debug("configuration loaded",
		"neo4j_uri", cfg.Neo4jURI,
		"qdrant_url", cfg.QdrantURL,
		"collection", cfg.QdrantCollection,
	)
	return nil
}

// withApp opens the application, runs fn and closes it.
func (g *globals) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := openApp(ctx, g.cfg)
	if err != nil {
		return err
	}
	defer a.Close(ctx)
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
