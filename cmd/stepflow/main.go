package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/stepflow/internal/cmd"
	"github.com/felixgeelhaar/stepflow/internal/exitcode"
	"github.com/felixgeelhaar/stepflow/internal/ux"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		switch {
		case errors.Is(err, exitcode.ErrStepsFailed):
			// Failures were already reported by the run output
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			fmt.Fprintln(os.Stderr, "\nInterrupted: running steps were stopped and recorded as failed")
			exitcode.Exit(exitcode.Interrupted)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", ux.EnhanceError(err))
		}
		exitcode.ExitWithError(err)
	}
	exitcode.Exit(exitcode.Success)
}
