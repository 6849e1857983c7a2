package ux

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/spec"
)

func TestRenderStatus_Plain(t *testing.T) {
	prior := map[string]flow.StepRecord{
		"fetch": {State: flow.StateSucceeded, Runs: []flow.StepRun{finishedRun(refTime.Add(-time.Hour), 2*time.Second, 0)}},
		"build": {State: flow.StateFailed, Runs: []flow.StepRun{finishedRun(refTime.Add(-time.Minute), 1500*time.Millisecond, 2)}},
	}
	f := buildFlow(t, prior)

	out := RenderStatus(f, PlainStyles(), refTime)
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "STATE")
	assert.Contains(t, lines[0], "STEP")
	assert.Contains(t, lines[1], "✓ succeeded")
	assert.Contains(t, lines[1], "fetch")
	assert.Contains(t, lines[1], "[ci]")
	assert.Contains(t, lines[1], "exit 0")
	assert.Contains(t, lines[2], "✗ failed")
	assert.Contains(t, lines[2], "exit 2")
	assert.Contains(t, lines[2], "1.5s")
	assert.Contains(t, lines[3], "dependencyFailed")
	assert.Contains(t, lines[3], "-")
	assert.Contains(t, out, "1 dependencyFailed, 1 succeeded, 1 failed")
	assert.NotContains(t, out, "\x1b[", "plain styles must not emit escape codes")
}

func TestRenderStatus_RunningStep(t *testing.T) {
	run := flow.NewStepRun(refTime.Add(-90*time.Second), "")
	f := buildFlow(t, map[string]flow.StepRecord{
		"fetch": {State: flow.StateRunning, Runs: []flow.StepRun{*run}},
	})

	out := RenderStatus(f, PlainStyles(), refTime)
	assert.Contains(t, out, "running for 1m30s")
}

func TestRenderStatus_Empty(t *testing.T) {
	f, err := flow.Build(&spec.Workflow{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "no steps defined\n", RenderStatus(f, PlainStyles(), refTime))
}

func TestStylesForState(t *testing.T) {
	styles := PlainStyles()
	for _, state := range flow.States() {
		assert.Equal(t, string(state), styles.ForState(state).Render(string(state)))
		assert.NotEmpty(t, StateIcon(state))
	}
	assert.Equal(t, DefaultStyles().Success.GetForeground(), NewStyles(false).Success.GetForeground())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{1234567 * time.Microsecond, "1.2s"},
		{250 * time.Millisecond, "250ms"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 40*time.Second, "2h1m0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}
