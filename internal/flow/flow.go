// Package flow holds the step graph of a workflow and the rules that decide
// each step's state from the states of its dependencies.
//
// Steps are kept in a flat store keyed by name. Relations between steps are
// name sets resolved through the owning Flow, so a Step never points at
// another Step.
package flow

// Flow is a validated, acyclic graph of steps
type Flow struct {
	// Env applies to every step before the step's own env
	Env map[string]string

	steps  []*Step
	byName map[string]*Step
}

// Step returns the step called name
func (f *Flow) Step(name string) (*Step, bool) {
	s, ok := f.byName[name]
	return s, ok
}

// Steps returns all steps in declaration order
func (f *Flow) Steps() []*Step {
	out := make([]*Step, len(f.steps))
	copy(out, f.steps)
	return out
}

// Len returns the number of steps
func (f *Flow) Len() int {
	return len(f.steps)
}

// Ancestors returns every step that s transitively depends on
func (f *Flow) Ancestors(s *Step) []*Step {
	return f.collect(s.ancestors)
}

// Descendants returns every step that transitively depends on s
func (f *Flow) Descendants(s *Step) []*Step {
	return f.collect(s.descendants)
}

// DirectDescendants returns the steps listing s as a direct dependency
func (f *Flow) DirectDescendants(s *Step) []*Step {
	return f.collect(s.directDescendants)
}

// Dependencies returns the direct dependencies of s in declared order
func (f *Flow) Dependencies(s *Step) []*Step {
	out := make([]*Step, 0, len(s.Deps))
	for _, name := range s.Deps {
		out = append(out, f.byName[name])
	}
	return out
}

// InitialSteps returns the steps without ancestors
func (f *Flow) InitialSteps() []*Step {
	var out []*Step
	for _, s := range f.steps {
		if len(s.ancestors) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// FinalSteps returns the steps without descendants
func (f *Flow) FinalSteps() []*Step {
	var out []*Step
	for _, s := range f.steps {
		if len(s.descendants) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// StepsInState returns the steps currently in state, in declaration order
func (f *Flow) StepsInState(state StepState) []*Step {
	var out []*Step
	for _, s := range f.steps {
		if s.State == state {
			out = append(out, s)
		}
	}
	return out
}

// Counts returns the number of steps per state
func (f *Flow) Counts() map[StepState]int {
	counts := make(map[StepState]int, len(allStates))
	for _, s := range f.steps {
		counts[s.State]++
	}
	return counts
}

// Environment returns the flow env overlaid with the step env
func (f *Flow) Environment(s *Step) map[string]string {
	env := make(map[string]string, len(f.Env)+len(s.Env))
	for k, v := range f.Env {
		env[k] = v
	}
	for k, v := range s.Env {
		env[k] = v
	}
	return env
}

// Records returns the persisted view of every step keyed by name
func (f *Flow) Records() map[string]StepRecord {
	out := make(map[string]StepRecord, len(f.steps))
	for _, s := range f.steps {
		out[s.Name] = s.Record()
	}
	return out
}

// MarkDescendantsDirty flags every transitive dependent of s for re-evaluation
func (f *Flow) MarkDescendantsDirty(s *Step) {
	for _, d := range f.Descendants(s) {
		d.Dirty = true
	}
}

func (f *Flow) collect(names map[string]struct{}) []*Step {
	if len(names) == 0 {
		return nil
	}
	out := make([]*Step, 0, len(names))
	for _, s := range f.steps {
		if _, ok := names[s.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}
