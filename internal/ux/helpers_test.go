package ux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

var refTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func buildFlow(t *testing.T, prior map[string]flow.StepRecord) *flow.Flow {
	t.Helper()
	wf := &spec.Workflow{
		Path: "stepflow.yaml",
		Env:  map[string]string{"CI": "1"},
		Steps: []spec.StepDefinition{
			{Name: "fetch", Command: "git pull", Cwd: "/src", Log: spec.LogModeFile, Tags: []string{"ci"}},
			{Name: "build", Command: "make", Cwd: "/src", Log: spec.LogModeConsole, Description: "Build the app", Deps: []string{"fetch"}},
			{Name: "test", Command: "make test", Cwd: "/src", Log: spec.LogModeFile, Deps: []string{"build"}, Env: map[string]string{"V": "1"}},
		},
	}
	f, err := flow.Build(wf, prior)
	require.NoError(t, err)
	f.Clean()
	return f
}

func finishedRun(start time.Time, d time.Duration, code int) flow.StepRun {
	run := flow.NewStepRun(start, "/logs/run.txt")
	run.Finish(start.Add(d), code)
	return *run
}
