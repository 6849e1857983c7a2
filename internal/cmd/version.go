package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepflow/internal/ux"
	"github.com/felixgeelhaar/stepflow/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	cmd.Flags().Bool("short", false, "print only the version number")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	short, err := cmd.Flags().GetBool("short")
	if err != nil {
		return err
	}

	info := version.GetInfo()
	if short {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Short())
		return err
	}

	formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return formatter.Format(info)
}
