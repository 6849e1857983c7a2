package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/ux"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the resolved workflow graph",
		Long: `Inspect prints the workflow after validation: the global env, the
initial and final steps, and for every step its command, working directory,
env, tags, dependencies, direct descendants, state and last run.

Examples:
  stepflow inspect
  stepflow inspect --format json | jq '.steps[] | select(.state == "failed")'
`,
		Args: cobra.NoArgs,
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	f, err := s.loadFlow()
	if err != nil {
		return err
	}

	formatter, err := s.formatter()
	if err != nil {
		return err
	}
	return formatter.Format(ux.BuildInspection(f))
}
