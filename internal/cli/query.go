package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"georag/internal/app"
	"georag/internal/retrieval"
	"georag/internal/service"
)

func newRetrieveCmd(g *globals) *cobra.Command {
	var (
		strategy string
		k        int
	)

	cmd := &cobra.Command{
		Use:   "retrieve <question>",
		Short: "Print the context one strategy retrieves for a question",
		Long: fmt.Sprintf(`Run one retrieval strategy and print the rendered context.

Strategies: %s

Examples:
  georag retrieve "Which rivers flow through Germany?"
  georag retrieve --strategy graph_only "What borders Austria?"`, strategyList()),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.RetrieveRequest{Question: strings.Join(args, " "), Strategy: strategy, K: k}
			return g.withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.Query.Retrieve(cmd.Context(), req)
				if err != nil {
					return err
				}
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(retrieval.StrategyFusionRanked), "retrieval strategy")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of documents to retrieve (default: RETRIEVAL_K)")
	return cmd
}

func newCompareCmd(g *globals) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "compare <question>",
		Short: "Print the context of every strategy for one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return g.withApp(cmd.Context(), func(a *app.App) error {
				results, err := a.Query.Compare(cmd.Context(), question, k)
				if err != nil {
					return err
				}
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				for i, res := range results {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					if err := printResult(cmd.OutOrStdout(), res); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of documents to retrieve (default: RETRIEVAL_K)")
	return cmd
}

func newAskCmd(g *globals) *cobra.Command {
	var (
		strategy string
		k        int
		detail   bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from retrieved context with the LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.RetrieveRequest{Question: strings.Join(args, " "), Strategy: strategy, K: k}
			return g.withApp(cmd.Context(), func(a *app.App) error {
				resp, err := a.Query.Ask(cmd.Context(), req)
				if err != nil {
					return err
				}
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"answer":    resp.Answer,
						"retrieval": resp.Retrieval,
					})
				}
				out := cmd.OutOrStdout()
				if detail {
					if err := printResult(out, resp.Retrieval); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
				_, err = fmt.Fprintln(out, resp.Answer)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(retrieval.StrategyFusionRanked), "retrieval strategy")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of documents to retrieve (default: RETRIEVAL_K)")
	cmd.Flags().BoolVar(&detail, "detail", false, "print the retrieved context before the answer")
	return cmd
}

func printResult(w io.Writer, res retrieval.Result) error {
	fmt.Fprintf(w, "=== %s ===\n", res.Strategy)
	if len(res.Entities) > 0 {
		fmt.Fprintf(w, "entities: %s\n", strings.Join(res.Entities, ", "))
	}
	if res.AugmentedQuery != "" {
		fmt.Fprintf(w, "augmented query: %s\n", res.AugmentedQuery)
	}
	if len(res.FailedEntities) > 0 {
		fmt.Fprintf(w, "failed lookups: %s\n", strings.Join(res.FailedEntities, ", "))
	}
	_, err := fmt.Fprintln(w, res.Context)
	return err
}

func strategyList() string {
	names := make([]string, 0, len(retrieval.Strategies()))
	for _, s := range retrieval.Strategies() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
