package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/exitcode"
	"github.com/felixgeelhaar/stepflow/internal/workflow"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every step that is ready, until nothing is left to do",
		Long: `Run launches every step waiting for a run, in parallel, and keeps launching
steps as their dependencies succeed. It returns once nothing is left running.

Steps that succeeded in an earlier invocation are skipped. Failed steps are
reset, together with their descendants, and run again. Disabled steps and
everything below them are left alone.

Exit status is 0 when no step failed and 4 when at least one did.

Examples:
  # Run the workflow in the current directory
  stepflow run

  # Run at most two steps at a time
  stepflow run --max-parallel 2
`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	f, err := s.loadFlow()
	if err != nil {
		return err
	}

	printer := newProgressPrinter(s.out, s.styles())
	engine := s.newEngine(f, workflow.WithObserver(printer.observe))

	summary, err := engine.Run(cmd.Context())
	if summary != nil {
		printer.summary(summary)
	}
	if err != nil {
		s.logger.LogError(cmd.Context(), err)
		return err
	}
	if !summary.Succeeded() {
		return exitcode.ErrStepsFailed
	}
	return nil
}
