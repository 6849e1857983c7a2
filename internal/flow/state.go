package flow

import (
	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
)

// StepState is the runtime state of a step
type StepState string

const (
	StateNone                 StepState = "none"
	StateWaitingForRun        StepState = "waitingForRun"
	StateWaitingForDependency StepState = "waitingForDependency"
	StateDependencyFailed     StepState = "dependencyFailed"
	StateSucceeded            StepState = "succeeded"
	StateRunning              StepState = "running"
	StateFailed               StepState = "failed"
	StateDisabled             StepState = "disabled"
)

var allStates = []StepState{
	StateNone,
	StateWaitingForRun,
	StateWaitingForDependency,
	StateDependencyFailed,
	StateSucceeded,
	StateRunning,
	StateFailed,
	StateDisabled,
}

// States returns every step state in a stable order
func States() []StepState {
	out := make([]StepState, len(allStates))
	copy(out, allStates)
	return out
}

// StateNames returns the string form of every step state
func StateNames() []string {
	names := make([]string, len(allStates))
	for i, s := range allStates {
		names[i] = string(s)
	}
	return names
}

// ParseStepState converts a state name into a StepState
func ParseStepState(value string) (StepState, error) {
	s := StepState(value)
	if !s.Valid() {
		return "", sferrors.NewInvalidStateError(value, StateNames())
	}
	return s, nil
}

// Valid reports whether s is one of the known states
func (s StepState) Valid() bool {
	for _, known := range allStates {
		if s == known {
			return true
		}
	}
	return false
}

func (s StepState) String() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler
func (s StepState) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText rejects unknown state names
func (s *StepState) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = ""
		return nil
	}
	parsed, err := ParseStepState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
