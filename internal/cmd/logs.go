package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/exec"
	"github.com/felixgeelhaar/stepflow/internal/flow"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs <step>",
		Short: "Print the log of a step's most recent run",
		Long: `Print the captured output of the most recent run of a step. Only steps
with 'log: file' (the default) have logs.

Examples:
  stepflow logs build
  less "$(stepflow logs build --path)"
`,
		Args: cobra.ExactArgs(1),
		RunE: runLogs,
	}
	cmd.Flags().Bool("path", false, "print the log file path instead of its content")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	pathOnly, err := cmd.Flags().GetBool("path")
	if err != nil {
		return err
	}

	f, err := s.loadFlow()
	if err != nil {
		return err
	}

	name := args[0]
	step, ok := f.Step(name)
	if !ok {
		return sferrors.NewUnknownStepError([]string{name})
	}

	logFile, err := latestLogFile(s.paths.LogDir(), name, step.LastRun())
	if err != nil {
		return err
	}

	if pathOnly {
		_, err := fmt.Fprintln(s.out, logFile)
		return err
	}

	return copyLog(s.out, logFile)
}

// latestLogFile prefers the log of the last recorded run and falls back to
// the latest.txt pointer
func latestLogFile(logDir, step string, last *flow.StepRun) (string, error) {
	if last != nil && last.LogFile != "" {
		return last.LogFile, nil
	}
	latest := exec.LatestLogPath(logDir, step)
	if _, err := os.Stat(latest); err == nil {
		return latest, nil
	}
	return "", NoLogFileError(step)
}

func copyLog(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeFileReadFailed, fmt.Sprintf("failed to open log %s", path), err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read log %s", path), err)
	}
	return nil
}
