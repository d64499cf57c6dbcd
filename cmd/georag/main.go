// Command georag seeds the knowledge graph, indexes the corpus and runs
// retrieval strategies from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"georag/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
