package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/tui"
	"github.com/felixgeelhaar/stepflow/internal/ux"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of every step",
		Long: `Display one row per step with its state, its last run and its tags.

Examples:
  # Display status as a table
  stepflow status

  # Follow a run from another terminal
  stepflow status --watch

  # Output the persisted step records as JSON for scripting
  stepflow status --format json
`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().BoolP("watch", "w", false, "refresh the table every second until q is pressed")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}
	if watch {
		return tui.Watch(s.loadFlow, s.styles())
	}

	f, err := s.loadFlow()
	if err != nil {
		return err
	}

	if s.cmdCtx.Format != "text" && s.cmdCtx.Format != "" {
		formatter, err := s.formatter()
		if err != nil {
			return err
		}
		return formatter.Format(f.Records())
	}

	_, err = fmt.Fprint(s.out, ux.RenderStatus(f, s.styles(), time.Now()))
	return err
}
