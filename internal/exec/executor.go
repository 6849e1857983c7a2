// Package exec runs step commands as local shell processes.
package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/log"
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// DefaultShell interprets step commands
const DefaultShell = "/bin/sh"

// waitDelay bounds how long a killed process may hold its output pipes open
const waitDelay = 5 * time.Second

// ShellRunner runs each request as `<shell> -c <command>`
type ShellRunner struct {
	Shell  string
	Stdout io.Writer
	Stderr io.Writer

	logger *log.Logger
}

// NewShellRunner creates a runner using shell. An empty shell selects
// DefaultShell. Console-mode output goes to the process's own stdout and stderr.
func NewShellRunner(shell string, logger *log.Logger) *ShellRunner {
	if shell == "" {
		shell = DefaultShell
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ShellRunner{
		Shell:  shell,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Run executes req and waits for it to exit. Cancelling ctx kills the process.
func (r *ShellRunner) Run(ctx context.Context, req Request) Result {
	startTime := time.Now()
	logger := r.logger.With("step", req.Step)

	cmd := osexec.CommandContext(ctx, r.Shell, "-c", req.Command)
	cmd.Dir = req.Dir
	cmd.Env = mergeEnv(os.Environ(), req.Env)
	cmd.WaitDelay = waitDelay

	switch req.LogMode {
	case spec.LogModeConsole:
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	default:
		logFile, err := openLogFile(req.LogFile)
		if err != nil {
			return Result{
				ExitCode: -1,
				Duration: time.Since(startTime),
				Err:      sferrors.Wrap(sferrors.ErrCodeExecLogFile, fmt.Sprintf("failed to open log file for step %q", req.Step), err),
			}
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile

		if err := UpdateLatest(req.LogFile); err != nil {
			logger.Debug("failed to refresh latest log pointer", "error", err)
		}
	}

	logger.Debug("starting process", "dir", req.Dir, "log_mode", string(req.LogMode))
	err := cmd.Run()
	duration := time.Since(startTime)

	if err == nil {
		return Result{ExitCode: 0, Succeeded: true, Duration: duration}
	}

	var exitErr *osexec.ExitError
	if stderrors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Duration: duration}
	}

	return Result{
		ExitCode: -1,
		Duration: duration,
		Err:      sferrors.Wrap(sferrors.ErrCodeExecSpawnFailed, fmt.Sprintf("failed to start step %q", req.Step), err),
	}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file given")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// mergeEnv overlays overrides onto base, a list of KEY=value pairs
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := overrides[key]; overridden {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
