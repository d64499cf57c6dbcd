package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"georag/internal/app"
)

func newIndexCmd(g *globals) *cobra.Command {
	var corpusPath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed a text corpus into the vector store",
		Long: `Load a corpus file (.json document list or .md with one document per
paragraph), or every such file below a directory, and embed the documents into
Qdrant. Unchanged documents are skipped and documents removed from a file are
pruned.

Examples:
  georag index --corpus ./data/corpus.json
  georag index                               # Uses CORPUS_PATH`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := corpusPath
			if path == "" {
				path = g.cfg.CorpusPath
			}
			if path == "" {
				return errors.New("no corpus given: pass --corpus or set CORPUS_PATH")
			}

			return g.withApp(cmd.Context(), func(a *app.App) error {
				stats, err := a.IndexCorpus(cmd.Context(), path)
				if err != nil {
					return err
				}
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(),
					"processed %d documents: %d embedded, %d unchanged, %d removed (%d batches)\n",
					stats.Processed, stats.Embedded, stats.Skipped, stats.Removed, stats.Batches)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file to index (default: CORPUS_PATH)")
	return cmd
}
