package domain

import (
	"fmt"
	"strings"
)

// StepName identifies a step in a workflow.
// Step names double as log directory names, so they must be usable as a single
// path element.
type StepName string

// maxStepNameLength is the maximum allowed length for a step name
const maxStepNameLength = 100

// NewStepName creates a new StepName value object with validation
func NewStepName(value string) (StepName, error) {
	name := StepName(value)
	if err := name.Validate(); err != nil {
		return "", err
	}
	return name, nil
}

// Validate checks if the step name is valid
func (n StepName) Validate() error {
	s := string(n)

	if s == "" {
		return fmt.Errorf("step name cannot be empty")
	}

	if len(s) > maxStepNameLength {
		return fmt.Errorf("step name %q exceeds maximum length of %d characters", s, maxStepNameLength)
	}

	if s == "." || s == ".." {
		return fmt.Errorf("step name %q is reserved", s)
	}

	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("step name %q cannot contain path separators", s)
	}

	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("step name %q cannot contain NUL", s)
	}

	// Leading hyphens are read as flags on the command line
	if strings.HasPrefix(s, "-") {
		return fmt.Errorf("step name %q cannot start with a hyphen", s)
	}

	return nil
}

// String returns the string representation
func (n StepName) String() string {
	return string(n)
}
