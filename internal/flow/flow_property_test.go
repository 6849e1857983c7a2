package flow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/felixgeelhaar/stepflow/internal/spec"
)

// genDAG generates an acyclic workflow. Step i may only depend on steps with a
// lower index, and declaration order is shuffled afterwards.
func genDAG() *rapid.Generator[*spec.Workflow] {
	return rapid.Custom(func(t *rapid.T) *spec.Workflow {
		n := rapid.IntRange(1, 12).Draw(t, "steps")
		defs := make([]spec.StepDefinition, n)
		for i := 0; i < n; i++ {
			var deps []string
			for j := 0; j < i; j++ {
				if rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("edge_%d_%d", i, j)) == 0 {
					deps = append(deps, fmt.Sprintf("s%d", j))
				}
			}
			defs[i] = stepDef(fmt.Sprintf("s%d", i), deps...)
		}
		defs = rapid.Permutation(defs).Draw(t, "order")
		return workflow(defs...)
	})
}

func genStates(wf *spec.Workflow) *rapid.Generator[map[string]StepRecord] {
	return rapid.Custom(func(t *rapid.T) map[string]StepRecord {
		prior := make(map[string]StepRecord, len(wf.Steps))
		for _, sd := range wf.Steps {
			state := rapid.SampledFrom(States()).Draw(t, "state_"+sd.Name)
			prior[sd.Name] = StepRecord{State: state}
		}
		return prior
	})
}

func closure(wf *spec.Workflow, name string) map[string]bool {
	deps := make(map[string][]string, len(wf.Steps))
	for _, sd := range wf.Steps {
		deps[sd.Name] = sd.Deps
	}
	out := make(map[string]bool)
	queue := append([]string(nil), deps[name]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if out[next] {
			continue
		}
		out[next] = true
		queue = append(queue, deps[next]...)
	}
	return out
}

// TestFlow_AncestorsAndDescendantsAreInverse tests that y is an ancestor of x
// exactly when x is a descendant of y, and that ancestors are the transitive
// closure of deps
func TestFlow_AncestorsAndDescendantsAreInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wf := genDAG().Draw(t, "workflow")
		f, err := Build(wf, nil)
		if err != nil {
			t.Fatalf("acyclic workflow rejected: %v", err)
		}

		for _, x := range f.Steps() {
			want := closure(wf, x.Name)
			got := names(f.Ancestors(x))
			if len(got) != len(want) {
				t.Fatalf("ancestors(%s) = %v, want %v", x.Name, got, want)
			}
			for _, a := range got {
				if !want[a] {
					t.Fatalf("ancestors(%s) contains %s", x.Name, a)
				}
			}

			for _, y := range f.Steps() {
				isAncestor := x.DependsOn(y.Name)
				isDescendant := false
				for _, d := range f.Descendants(y) {
					if d.Name == x.Name {
						isDescendant = true
					}
				}
				if isAncestor != isDescendant {
					t.Fatalf("%s ancestor of %s = %v but descendant relation = %v", y.Name, x.Name, isAncestor, isDescendant)
				}
			}
		}
	})
}

// TestFlow_CleanIsIdempotent tests that re-evaluating a clean flow changes nothing
func TestFlow_CleanIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wf := genDAG().Draw(t, "workflow")
		prior := genStates(wf).Draw(t, "prior")
		f, err := Build(wf, prior)
		if err != nil {
			t.Fatalf("build: %v", err)
		}

		f.Clean()
		first := f.Records()

		for _, s := range f.Steps() {
			s.Dirty = true
		}
		f.Clean()
		second := f.Records()

		for name, rec := range first {
			if second[name].State != rec.State {
				t.Fatalf("step %s moved from %s to %s on second Clean", name, rec.State, second[name].State)
			}
		}
	})
}

// TestFlow_CleanNeverMovesTerminalStates tests that failed and disabled steps
// keep their state through propagation
func TestFlow_CleanNeverMovesTerminalStates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wf := genDAG().Draw(t, "workflow")
		prior := genStates(wf).Draw(t, "prior")
		f, err := Build(wf, prior)
		if err != nil {
			t.Fatalf("build: %v", err)
		}

		f.Clean()

		for name, rec := range prior {
			if rec.State != StateFailed && rec.State != StateDisabled {
				continue
			}
			if got := stateOfRapid(f, name); got != rec.State {
				t.Fatalf("step %s moved from %s to %s", name, rec.State, got)
			}
		}
	})
}

// TestFlow_CycleErrorNamesEveryCycleStep tests that a cycle injected into an
// otherwise valid graph is reported with all of its steps
func TestFlow_CycleErrorNamesEveryCycleStep(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wf := genDAG().Draw(t, "workflow")
		k := rapid.IntRange(1, 5).Draw(t, "cycle_len")

		cycle := make([]string, k)
		for i := range cycle {
			cycle[i] = fmt.Sprintf("c%d", i)
		}
		for i, name := range cycle {
			deps := []string{cycle[(i+1)%k]}
			if len(wf.Steps) > 0 && rapid.Bool().Draw(t, "attach_"+name) {
				deps = append(deps, wf.Steps[0].Name)
			}
			wf.Steps = append(wf.Steps, stepDef(name, deps...))
		}

		_, err := Build(wf, nil)
		if err == nil {
			t.Fatalf("cycle %v not detected", cycle)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}

		var cycleLines []string
		for _, p := range verr.Problems() {
			if strings.HasPrefix(p.Error(), "cycle: ") {
				cycleLines = append(cycleLines, p.Error())
			}
		}
		if len(cycleLines) != 1 {
			t.Fatalf("expected exactly one cycle, got %v", cycleLines)
		}
		for _, name := range cycle {
			if !strings.Contains(cycleLines[0], name) {
				t.Fatalf("cycle report %q is missing %s", cycleLines[0], name)
			}
		}
	})
}

func stateOfRapid(f *Flow, name string) StepState {
	s, _ := f.Step(name)
	return s.State
}
