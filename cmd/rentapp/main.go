// Command rentapp works with the shared rental store from a terminal and
// serves its read API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evcraddock/rentapp/internal/cli"
)

func main() {
	// Interrupts cancel the command context so watch and serve stop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rentapp: %s\n", err)
		os.Exit(1)
	}
}
