package flow

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/felixgeelhaar/stepflow/internal/domain"
	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// ValidationError collects every problem found while building a Flow
type ValidationError struct {
	errs error
}

// Error lists one problem per line
func (e *ValidationError) Error() string {
	problems := e.Problems()
	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.Error()
	}
	return strings.Join(lines, "\n")
}

// Problems returns the individual problems
func (e *ValidationError) Problems() []error {
	return multierr.Errors(e.errs)
}

// Unwrap exposes the individual problems to errors.Is and errors.As
func (e *ValidationError) Unwrap() []error {
	return e.Problems()
}

// Build turns a workflow definition into a Flow, rehydrating runtime state from
// prior. Every problem in the definition is reported in a single error and no
// Flow is returned in that case.
func Build(def *spec.Workflow, prior map[string]StepRecord) (*Flow, error) {
	f := &Flow{
		Env:    make(map[string]string, len(def.Env)),
		byName: make(map[string]*Step, len(def.Steps)),
	}
	for k, v := range def.Env {
		f.Env[k] = v
	}

	var errs error
	for _, err := range def.Errors {
		errs = multierr.Append(errs, err)
	}
	for _, field := range def.UnknownFields {
		errs = multierr.Append(errs, fmt.Errorf("unknown field %q", field))
	}

	for _, sd := range def.Steps {
		if _, err := domain.NewStepName(sd.Name); err != nil {
			errs = multierr.Append(errs, err)
		}
		for _, err := range sd.FieldErrors {
			errs = multierr.Append(errs, fmt.Errorf("step %q: %w", sd.Name, err))
		}
		for _, field := range sd.UnknownFields {
			errs = multierr.Append(errs, fmt.Errorf("step %q: unknown field %q", sd.Name, field))
		}
		if sd.DepsMalformed {
			errs = multierr.Append(errs, fmt.Errorf("step %q: deps must be a list of step names", sd.Name))
		}
		if _, dup := f.byName[sd.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate step %q", sd.Name))
			continue
		}

		s := newStep(sd)
		f.steps = append(f.steps, s)
		f.byName[s.Name] = s
	}

	for _, s := range f.steps {
		for _, dep := range s.Deps {
			if _, ok := f.byName[dep]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s => %s", s.Name, dep))
			}
		}
	}

	for _, cycle := range f.findCycles() {
		errs = multierr.Append(errs, fmt.Errorf("cycle: %s", strings.Join(cycle, " -> ")))
	}

	if errs != nil {
		return nil, sferrors.NewWorkflowInvalidError(def.Path, &ValidationError{errs: errs})
	}

	f.computeClosures()

	for _, s := range f.steps {
		if rec, ok := prior[s.Name]; ok {
			s.rehydrate(rec)
		}
		s.Dirty = true
	}

	return f, nil
}

func newStep(sd spec.StepDefinition) *Step {
	env := make(map[string]string, len(sd.Env))
	for k, v := range sd.Env {
		env[k] = v
	}

	// Repeated names in a deps list collapse to one edge
	seen := make(map[string]struct{}, len(sd.Deps))
	deps := make([]string, 0, len(sd.Deps))
	for _, d := range sd.Deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		deps = append(deps, d)
	}

	log := sd.Log
	if log == "" {
		log = spec.LogModeFile
	}

	return &Step{
		Name:        sd.Name,
		Command:     sd.Command,
		Cwd:         sd.Cwd,
		Env:         env,
		Tags:        append([]string(nil), sd.Tags...),
		Log:         log,
		Description: sd.Description,
		State:       StateNone,
		Deps:        deps,
	}
}

// findCycles runs a depth-first search from every step, tracking the current
// path. An edge back onto the path closes a cycle, which is recorded once
// regardless of the step it was entered from.
func (f *Flow) findCycles() [][]string {
	var cycles [][]string
	seen := make(map[string]struct{})

	for _, start := range f.steps {
		visited := make(map[string]bool)
		onPath := make(map[string]int)
		var path []string

		var visit func(name string)
		visit = func(name string) {
			visited[name] = true
			onPath[name] = len(path)
			path = append(path, name)

			for _, dep := range f.byName[name].Deps {
				if _, ok := f.byName[dep]; !ok {
					continue
				}
				if idx, ok := onPath[dep]; ok {
					cycle := canonicalCycle(path[idx:])
					key := strings.Join(cycle, "\x00")
					if _, dup := seen[key]; !dup {
						seen[key] = struct{}{}
						cycles = append(cycles, append(cycle, cycle[0]))
					}
					continue
				}
				if !visited[dep] {
					visit(dep)
				}
			}

			path = path[:len(path)-1]
			delete(onPath, name)
		}
		visit(start.Name)
	}

	return cycles
}

// canonicalCycle rotates a cycle so that its smallest name comes first
func canonicalCycle(cycle []string) []string {
	minIdx := 0
	for i, name := range cycle {
		if name < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(cycle)+1)
	out = append(out, cycle[minIdx:]...)
	out = append(out, cycle[:minIdx]...)
	return out
}

func (f *Flow) computeClosures() {
	memo := make(map[string]map[string]struct{}, len(f.steps))

	var ancestors func(s *Step) map[string]struct{}
	ancestors = func(s *Step) map[string]struct{} {
		if set, ok := memo[s.Name]; ok {
			return set
		}
		set := make(map[string]struct{})
		for _, name := range s.Deps {
			set[name] = struct{}{}
			for a := range ancestors(f.byName[name]) {
				set[a] = struct{}{}
			}
		}
		memo[s.Name] = set
		return set
	}

	for _, s := range f.steps {
		s.ancestors = ancestors(s)
		s.descendants = make(map[string]struct{})
		s.directDescendants = make(map[string]struct{})
	}
	for _, s := range f.steps {
		for a := range s.ancestors {
			f.byName[a].descendants[s.Name] = struct{}{}
		}
		for _, d := range s.Deps {
			f.byName[d].directDescendants[s.Name] = struct{}{}
		}
	}
}
