package workflow

import (
	"github.com/felixgeelhaar/stepflow/internal/flow"
)

// Reset moves the named steps to none and persists the result. See flow.Reset.
func (e *Engine) Reset(names []string, cascade bool) ([]*flow.Step, error) {
	return e.mutate(func() ([]*flow.Step, error) { return e.flow.Reset(names, cascade) })
}

// Set forces the named steps into state and persists the result
func (e *Engine) Set(state flow.StepState, names []string) ([]*flow.Step, error) {
	return e.mutate(func() ([]*flow.Step, error) { return e.flow.Set(state, names) })
}

// Disable disables the named steps and persists the result
func (e *Engine) Disable(names []string) ([]*flow.Step, error) {
	return e.mutate(func() ([]*flow.Step, error) { return e.flow.Disable(names) })
}

// Enable re-enables the named steps and persists the result
func (e *Engine) Enable(names []string) ([]*flow.Step, error) {
	return e.mutate(func() ([]*flow.Step, error) { return e.flow.Enable(names) })
}

func (e *Engine) mutate(op func() ([]*flow.Step, error)) ([]*flow.Step, error) {
	touched, err := op()
	if err != nil {
		return nil, err
	}
	if err := e.persist(); err != nil {
		return nil, err
	}
	e.logger.Debug("state updated", "steps", len(touched))
	return touched, nil
}
