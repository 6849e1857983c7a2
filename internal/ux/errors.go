package ux

import (
	"errors"
	"fmt"
	"strings"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
)

// ErrorWithSuggestion wraps an error with a recovery suggestion
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that do not already carry one.
// Coded errors keep their own suggestions and are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var sfErr *sferrors.StepflowError
	if errors.As(err, &sfErr) && len(sfErr.Suggestions) > 0 {
		return err
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check that the workflow directory and the state directory are writable")
	}

	if strings.Contains(errMsg, "no space left on device") {
		return NewErrorWithSuggestion(err,
			"Free disk space or lower the run retention with --retention")
	}

	if strings.Contains(errMsg, "executable file not found") {
		return NewErrorWithSuggestion(err,
			"Check the shell configured in config.yaml exists on PATH")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
