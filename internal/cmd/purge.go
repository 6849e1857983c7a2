package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/tui"
)

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete the persisted state and every run log",
		Long: `Purge removes the state snapshot and the logs directory. config.yaml is
kept. The next run starts from scratch.

Purge asks for confirmation when stdin is a terminal. Elsewhere --yes is
required.`,
		Args: cobra.NoArgs,
		RunE: runPurge,
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runPurge(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	if !yes {
		if !tui.ShouldPrompt() {
			return ConfirmationRequiredError("purge")
		}
		confirmed, err := tui.Confirm(fmt.Sprintf("Delete %s and %s?", s.paths.SnapshotFile(), s.paths.LogDir()), false)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(s.out, "purge cancelled")
			return nil
		}
	}

	if err := s.store.Purge(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.paths.LogDir()); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to remove %s", s.paths.LogDir()), err)
	}

	s.logger.Info("state purged", "dir", s.paths.StateDir)
	fmt.Fprintf(s.out, "purged %s\n", s.paths.StateDir)
	return nil
}
