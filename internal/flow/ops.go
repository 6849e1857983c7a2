package flow

import (
	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
)

// Resolve maps each name to the step with that exact name or, failing that, to
// every step carrying it as a tag. No names selects every step. If any name
// matches nothing, all unmatched names are reported and no steps are returned.
func (f *Flow) Resolve(names []string) ([]*Step, error) {
	if len(names) == 0 {
		return f.Steps(), nil
	}

	selected := make(map[string]struct{})
	var unmatched []string
	for _, name := range names {
		if s, ok := f.byName[name]; ok {
			selected[s.Name] = struct{}{}
			continue
		}
		matched := false
		for _, s := range f.steps {
			if s.HasTag(name) {
				selected[s.Name] = struct{}{}
				matched = true
			}
		}
		if !matched {
			unmatched = append(unmatched, name)
		}
	}

	if len(unmatched) > 0 {
		return nil, sferrors.NewUnknownStepError(unmatched)
	}
	return f.collect(selected), nil
}

// Reset moves the selected steps to none. With cascade, every descendant of a
// selected step is reset as well.
func (f *Flow) Reset(names []string, cascade bool) ([]*Step, error) {
	steps, err := f.Resolve(names)
	if err != nil {
		return nil, err
	}

	touched := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		touched[s.Name] = struct{}{}
		if cascade {
			for d := range s.descendants {
				touched[d] = struct{}{}
			}
		}
	}
	steps = f.collect(touched)

	return f.apply(steps, func(s *Step) { s.Transition(StateNone) }), nil
}

// Set forces the selected steps into state
func (f *Flow) Set(state StepState, names []string) ([]*Step, error) {
	if !state.Valid() {
		return nil, sferrors.NewInvalidStateError(string(state), StateNames())
	}
	steps, err := f.Resolve(names)
	if err != nil {
		return nil, err
	}
	return f.apply(steps, func(s *Step) { s.Transition(state) }), nil
}

// Disable moves the selected steps to disabled
func (f *Flow) Disable(names []string) ([]*Step, error) {
	steps, err := f.Resolve(names)
	if err != nil {
		return nil, err
	}
	return f.apply(steps, func(s *Step) { s.Transition(StateDisabled) }), nil
}

// Enable returns disabled steps among the selection to the state they had
// before the last transition, or none if there was no such state. Only one
// level is remembered.
func (f *Flow) Enable(names []string) ([]*Step, error) {
	steps, err := f.Resolve(names)
	if err != nil {
		return nil, err
	}
	return f.apply(steps, func(s *Step) {
		if s.State != StateDisabled {
			return
		}
		to := s.PrevState
		if to == "" {
			to = StateNone
		}
		s.Transition(to)
	}), nil
}

// apply mutates each step, marks it and its descendants dirty and
// re-propagates the flow.
func (f *Flow) apply(steps []*Step, mutate func(*Step)) []*Step {
	for _, s := range steps {
		mutate(s)
	}
	for _, s := range steps {
		s.Dirty = true
		f.MarkDescendantsDirty(s)
	}
	f.Clean()
	return steps
}
