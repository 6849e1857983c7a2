package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/stepflow/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates an invalid workflow, an unknown step name or tag,
	// or an unknown state name
	ConfigError = 3

	// StepsFailed indicates that the run settled with at least one failed step
	StepsFailed = 4

	// Interrupted indicates the invocation was cancelled (Ctrl-C)
	Interrupted = 130
)

// ErrStepsFailed is returned by commands whose run ended with failed steps.
// The failures have already been reported, so nothing more is printed.
var ErrStepsFailed = stderrors.New("one or more steps failed")

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, ErrStepsFailed) {
		return StepsFailed
	}
	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	var sfErr *errors.StepflowError
	if stderrors.As(err, &sfErr) {
		switch sfErr.Code {
		case errors.ErrCodeWorkflowInvalid,
			errors.ErrCodeWorkflowNotFound,
			errors.ErrCodeWorkflowParse,
			errors.ErrCodeUnknownStep,
			errors.ErrCodeInvalidState,
			errors.ErrCodeConfigInvalid:
			return ConfigError
		default:
			return GeneralError
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors reported by cobra
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}
	if strings.Contains(errMsg, "requires at least") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case StepsFailed:
		return "One or more steps failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
