package flow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRun_Duration(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := NewStepRun(start, "")

	_, ok := run.Duration()
	assert.False(t, ok, "open run has no duration")

	run.Finish(start.Add(90*time.Second), 0)
	d, ok := run.Duration()
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	run.Finish(start.Add(time.Hour), 1)
	d, _ = run.Duration()
	assert.Equal(t, 90*time.Second, d, "finished runs are immutable")
	assert.Equal(t, 0, *run.ExitCode)
}

func TestPushRun_Retention(t *testing.T) {
	s := &Step{Name: "a"}
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var evicted []*StepRun
	for i := 0; i < 15; i++ {
		evicted = append(evicted, s.PushRun(NewStepRun(base.Add(time.Duration(i)*time.Minute), ""), DefaultRetention)...)
	}

	require.Len(t, s.Runs, DefaultRetention)
	for i, run := range s.Runs {
		assert.Equal(t, base.Add(time.Duration(14-i)*time.Minute), run.StartTimestamp, "run %d", i)
	}

	require.Len(t, evicted, 5)
	for i, run := range evicted {
		assert.Equal(t, base.Add(time.Duration(i)*time.Minute), run.StartTimestamp)
	}
}

func TestPushRun_ZeroRetentionKeepsAll(t *testing.T) {
	s := &Step{Name: "a"}
	for i := 0; i < 20; i++ {
		assert.Empty(t, s.PushRun(NewStepRun(time.Now(), ""), 0))
	}
	assert.Len(t, s.Runs, 20)
}

func TestStepState_Parse(t *testing.T) {
	for _, name := range StateNames() {
		s, err := ParseStepState(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	_, err := ParseStepState("paused")
	assert.Error(t, err)
}

func TestStepRecord_JSON(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := StepRecord{State: StateRunning, Runs: []StepRun{{StartTimestamp: start, LogFile: "x.txt"}}}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"running","runs":[{"startTimestamp":"2026-03-01T12:00:00Z","logFile":"x.txt"}]}`, string(data))

	var bad StepRecord
	err = json.Unmarshal([]byte(`{"state":"sleeping","runs":[]}`), &bad)
	assert.Error(t, err)
}

func TestRecord_EmptyRunsSerialiseAsList(t *testing.T) {
	s := &Step{Name: "a", State: StateNone}
	data, err := json.Marshal(s.Record())
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"none","runs":[]}`, string(data))
}
