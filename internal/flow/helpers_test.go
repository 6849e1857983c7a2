package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepflow/internal/spec"
)

func stepDef(name string, deps ...string) spec.StepDefinition {
	return spec.StepDefinition{Name: name, Command: "true", Log: spec.LogModeFile, Deps: deps}
}

func workflow(steps ...spec.StepDefinition) *spec.Workflow {
	return &spec.Workflow{Path: "stepflow.yaml", Steps: steps}
}

func mustBuild(t *testing.T, wf *spec.Workflow, prior map[string]StepRecord) *Flow {
	t.Helper()
	f, err := Build(wf, prior)
	require.NoError(t, err)
	return f
}

func names(steps []*Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Name)
	}
	return out
}

func stateOf(t *testing.T, f *Flow, name string) StepState {
	t.Helper()
	s, ok := f.Step(name)
	require.True(t, ok, "step %q", name)
	return s.State
}

func setState(t *testing.T, f *Flow, name string, state StepState) {
	t.Helper()
	s, ok := f.Step(name)
	require.True(t, ok, "step %q", name)
	s.State = state
	s.Dirty = true
	f.MarkDescendantsDirty(s)
}
