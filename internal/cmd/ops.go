package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/workflow"
)

const selectorHelp = `Steps are selected by name or by tag. Without arguments every step is
selected. A name or tag that matches nothing aborts the command before any
state changes.`

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset [names or tags...]",
		Short: "Forget the outcome of steps so they run again",
		Long: `Reset moves the selected steps back to none, then re-evaluates them. By
default every descendant of a selected step is reset too.

` + selectorHelp + `

Examples:
  # Run build and everything after it again
  stepflow reset build

  # Reset only the test step
  stepflow reset --only test
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			only, err := cmd.Flags().GetBool("only")
			if err != nil {
				return err
			}
			return runOp(cmd, "reset", func(e *workflow.Engine) ([]*flow.Step, error) {
				return e.Reset(args, !only)
			})
		},
	}
	cmd.Flags().Bool("only", false, "reset only the selected steps, not their descendants")
	return cmd
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <state> [names or tags...]",
		Short: "Force steps into a state",
		Long: `Set moves the selected steps into the given state, then re-evaluates the
steps below them. Marking a step succeeded lets its dependents run without it.

States: none, waitingForRun, waitingForDependency, dependencyFailed,
succeeded, running, failed, disabled.

` + selectorHelp + `

Examples:
  # Skip the slow fetch step
  stepflow set succeeded fetch
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := flow.ParseStepState(args[0])
			if err != nil {
				return err
			}
			return runOp(cmd, "set", func(e *workflow.Engine) ([]*flow.Step, error) {
				return e.Set(state, args[1:])
			})
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable [names or tags...]",
		Short: "Keep steps from running",
		Long: `Disable parks the selected steps. A disabled step never runs and its
descendants wait. The previous state is remembered for enable.

` + selectorHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "disable", func(e *workflow.Engine) ([]*flow.Step, error) {
				return e.Disable(args)
			})
		},
	}
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable [names or tags...]",
		Short: "Restore disabled steps to their previous state",
		Long: `Enable returns each selected disabled step to the state it had before it
was disabled. Selected steps that are not disabled are left unchanged.

` + selectorHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, "enable", func(e *workflow.Engine) ([]*flow.Step, error) {
				return e.Enable(args)
			})
		},
	}
}

// runOp applies a manual state operation and persists the result
func runOp(cmd *cobra.Command, verb string, op func(*workflow.Engine) ([]*flow.Step, error)) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	f, err := s.loadFlow()
	if err != nil {
		return err
	}

	changed, err := op(s.newEngine(f))
	if err != nil {
		return err
	}

	s.logger.Debug("state changed", "op", verb, "steps", len(changed))
	printChanged(s.out, s.styles(), verb, changed)
	return nil
}
