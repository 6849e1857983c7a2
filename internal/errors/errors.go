package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Workflow errors (FLOW-001 to FLOW-099)
	ErrCodeWorkflowInvalid  ErrorCode = "FLOW-001"
	ErrCodeWorkflowNotFound ErrorCode = "FLOW-002"
	ErrCodeWorkflowParse    ErrorCode = "FLOW-003"
	ErrCodeUnknownStep      ErrorCode = "FLOW-004"
	ErrCodeInvalidState     ErrorCode = "FLOW-005"
	ErrCodeConfigInvalid    ErrorCode = "FLOW-006"

	// State snapshot errors (STATE-001 to STATE-099)
	ErrCodeSnapshotRead        ErrorCode = "STATE-001"
	ErrCodeSnapshotCorrupt     ErrorCode = "STATE-002"
	ErrCodeSnapshotWrite       ErrorCode = "STATE-003"
	ErrCodeSnapshotUnsupported ErrorCode = "STATE-004"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecSpawnFailed ErrorCode = "EXEC-001"
	ErrCodeExecLogFile     ErrorCode = "EXEC-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// StepflowError represents an error with a code and recovery suggestions
type StepflowError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *StepflowError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		cause := e.Cause.Error()
		if strings.Contains(cause, "\n") {
			b.WriteString(":\n")
			for _, line := range strings.Split(cause, "\n") {
				b.WriteString("  - ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		} else {
			b.WriteString(": ")
			b.WriteString(cause)
		}
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *StepflowError) Unwrap() error {
	return e.Cause
}

// New creates a new StepflowError
func New(code ErrorCode, message string) *StepflowError {
	return &StepflowError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new StepflowError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *StepflowError {
	return &StepflowError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *StepflowError) WithSuggestion(suggestion string) *StepflowError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *StepflowError) WithSuggestions(suggestions ...string) *StepflowError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// HasCode reports whether err is a StepflowError carrying code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var sfErr *StepflowError
	for err != nil {
		if !stderrors.As(err, &sfErr) {
			return false
		}
		if sfErr.Code == code {
			return true
		}
		err = sfErr.Cause
	}
	return false
}

// Common error constructors

// NewWorkflowInvalidError reports every problem found while building the step graph.
func NewWorkflowInvalidError(path string, cause error) *StepflowError {
	msg := "invalid workflow"
	if path != "" {
		msg = fmt.Sprintf("invalid workflow %s", path)
	}
	return Wrap(ErrCodeWorkflowInvalid, msg, cause).
		WithSuggestion("Fix the listed problems, then run 'stepflow inspect' to verify the graph")
}

// NewWorkflowNotFoundError creates a workflow file not found error
func NewWorkflowNotFoundError(path string) *StepflowError {
	msg := "no workflow file found"
	if path != "" {
		msg = fmt.Sprintf("workflow file not found: %s", path)
	}
	return New(ErrCodeWorkflowNotFound, msg).
		WithSuggestion("Create stepflow.yaml in the current directory").
		WithSuggestion("Point at a file explicitly with --file <path>")
}

// NewWorkflowParseError creates a workflow decoding error
func NewWorkflowParseError(path string, cause error) *StepflowError {
	return Wrap(ErrCodeWorkflowParse, fmt.Sprintf("failed to parse workflow %s", path), cause).
		WithSuggestion("Check the file syntax and field types")
}

// NewUnknownStepError reports step names or tags that matched nothing.
func NewUnknownStepError(names []string) *StepflowError {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return New(ErrCodeUnknownStep, fmt.Sprintf("no step or tag matches %s", strings.Join(quoted, ", "))).
		WithSuggestion("Run 'stepflow status' to list step names and tags")
}

// NewInvalidStateError creates an error for an unrecognised step state name
func NewInvalidStateError(value string, valid []string) *StepflowError {
	return New(ErrCodeInvalidState, fmt.Sprintf("unknown step state %q", value)).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(valid, ", ")))
}

// NewConfigInvalidError creates an error for an unreadable config.yaml
func NewConfigInvalidError(path string, cause error) *StepflowError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid config %s", path), cause).
		WithSuggestion("Supported keys: retention, max_parallel, shell, logging.level, logging.format")
}

// NewSnapshotWriteError creates a state persistence failure
func NewSnapshotWriteError(path string, cause error) *StepflowError {
	return Wrap(ErrCodeSnapshotWrite, fmt.Sprintf("failed to write state snapshot %s", path), cause).
		WithSuggestion("Check that the state directory is writable")
}

// NewSnapshotCorruptError creates an error for an unreadable snapshot
func NewSnapshotCorruptError(path string, cause error) *StepflowError {
	return Wrap(ErrCodeSnapshotCorrupt, fmt.Sprintf("state snapshot %s is not valid", path), cause).
		WithSuggestion("Run 'stepflow purge' to discard persisted state")
}
