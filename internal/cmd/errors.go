package cmd

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// ConfirmationRequiredError is returned when a destructive command cannot
// prompt
func ConfirmationRequiredError(action string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Refusing to %s without confirmation", action),
		nil,
		"Pass --yes to confirm non-interactively",
	)
}

// NoLogFileError is returned by logs for steps without a captured log
func NoLogFileError(step string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("No log file recorded for step %q", step),
		nil,
		"Steps with 'log: console' write to the terminal instead of a file",
		"Run the step first: stepflow run",
		fmt.Sprintf("Check the step's runs: stepflow inspect | grep -A12 '^%s '", step),
	)
}
