package flow

// Clean re-evaluates every dirty step, dependencies first.
func (f *Flow) Clean() {
	for _, s := range f.steps {
		f.CleanStep(s)
	}
}

// CleanStep re-evaluates s if it is dirty. Its dependencies are cleaned first.
// The dirty flag is cleared afterwards even when the evaluation itself moved
// the step to a new state.
func (f *Flow) CleanStep(s *Step) {
	if !s.Dirty {
		return
	}
	for _, name := range s.Deps {
		f.CleanStep(f.byName[name])
	}
	f.evaluate(s)
	s.Dirty = false
}

// evaluate applies the first matching rule. The rules overlap, so their order
// decides the outcome.
func (f *Flow) evaluate(s *Step) {
	switch s.State {
	case StateFailed, StateDisabled, StateRunning, StateSucceeded:
		return
	}

	var depFailed, depPending bool
	allSucceeded := true
	for _, name := range s.Deps {
		switch f.byName[name].State {
		case StateFailed, StateDependencyFailed:
			depFailed = true
		case StateRunning, StateWaitingForDependency, StateWaitingForRun, StateDisabled:
			depPending = true
		}
		if f.byName[name].State != StateSucceeded {
			allSucceeded = false
		}
	}

	switch {
	case depFailed:
		s.Transition(StateDependencyFailed)
	case depPending:
		s.Transition(StateWaitingForDependency)
	case len(s.Deps) == 0 && s.State == StateNone:
		s.Transition(StateWaitingForRun)
	case len(s.Deps) == 0:
		s.Transition(s.State)
	case allSucceeded:
		s.Transition(StateWaitingForRun)
	}
}
