// Package cmd implements the stepflow command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/ux"
)

// NewRootCmd builds the command tree. Each call returns fresh commands so
// flag values never leak between invocations.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stepflow",
		Short: "Run a graph of shell steps and remember how far it got",
		Long: `stepflow runs the steps declared in a workflow file (stepflow.yaml,
stepflow.yml or stepflow.hcl) in dependency order, running independent steps
in parallel. Step states are persisted after every change so that the next
invocation picks up where the last one stopped: succeeded steps are skipped and
failed steps are retried together with everything downstream of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", "", "workflow file (default: stepflow.yaml, stepflow.yml or stepflow.hcl in the current directory)")
	flags.String("dir", ux.DefaultStateDir, "state directory holding the snapshot, logs and config.yaml")
	flags.String("log-level", "", "log level: debug, info, warn, error (default from config.yaml, else warn)")
	flags.String("log-format", "", "log format: text or json (default from config.yaml, else text)")
	flags.String("format", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.Int("max-parallel", 0, "maximum number of steps running at once (0 = unlimited)")
	flags.Int("retention", 0, "number of runs kept per step (default from config.yaml, else 10)")

	rootCmd.AddCommand(
		newRunCmd(),
		newResetCmd(),
		newSetCmd(),
		newDisableCmd(),
		newEnableCmd(),
		newStatusCmd(),
		newInspectCmd(),
		newPurgeCmd(),
		newLogsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// ExecuteContext runs the root command with a context that is cancelled on
// interrupt
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
