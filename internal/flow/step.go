package flow

import (
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// DefaultRetention is the number of runs kept per step
const DefaultRetention = 10

// Step is a named unit of work in a Flow
type Step struct {
	Name        string
	Command     string
	Cwd         string
	Env         map[string]string
	Tags        []string
	Log         spec.LogMode
	Description string

	State     StepState
	PrevState StepState

	// Runs holds the run history, most recent first
	Runs []*StepRun

	Dirty bool

	// Deps are the names of the steps this step directly depends on
	Deps []string

	ancestors         map[string]struct{}
	descendants       map[string]struct{}
	directDescendants map[string]struct{}
}

// StepRecord is the persisted part of a step
type StepRecord struct {
	State     StepState `json:"state"`
	PrevState StepState `json:"prevState,omitempty"`
	Runs      []StepRun `json:"runs"`
}

// Transition moves the step to a new state. Moving to the current state does
// nothing.
func (s *Step) Transition(to StepState) {
	if to == s.State {
		return
	}
	s.PrevState = s.State
	s.State = to
	s.Dirty = true
}

// HasTag reports whether the step carries tag
func (s *Step) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DependsOn reports whether name is a transitive dependency of the step
func (s *Step) DependsOn(name string) bool {
	_, ok := s.ancestors[name]
	return ok
}

// LastRun returns the most recent run or nil
func (s *Step) LastRun() *StepRun {
	if len(s.Runs) == 0 {
		return nil
	}
	return s.Runs[0]
}

// PushRun records run as the most recent one and drops runs beyond retention.
// The dropped runs are returned so that their artifacts can be removed.
// A retention of zero or less keeps every run.
func (s *Step) PushRun(run *StepRun, retention int) []*StepRun {
	runs := make([]*StepRun, 0, len(s.Runs)+1)
	runs = append(runs, run)
	runs = append(runs, s.Runs...)

	var evicted []*StepRun
	if retention > 0 && len(runs) > retention {
		evicted = runs[retention:]
		runs = runs[:retention:retention]
	}
	s.Runs = runs
	return evicted
}

// Record returns the persisted view of the step
func (s *Step) Record() StepRecord {
	runs := make([]StepRun, 0, len(s.Runs))
	for _, r := range s.Runs {
		runs = append(runs, *r)
	}
	return StepRecord{State: s.State, PrevState: s.PrevState, Runs: runs}
}

func (s *Step) rehydrate(rec StepRecord) {
	if rec.State != "" {
		s.State = rec.State
	}
	s.PrevState = rec.PrevState
	s.Runs = make([]*StepRun, 0, len(rec.Runs))
	for i := range rec.Runs {
		run := rec.Runs[i]
		s.Runs = append(s.Runs, &run)
	}
}
