package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/flow"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), ".stepflow", DefaultFileName))
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Empty(t, snap.Steps)
}

func TestStoreSaveLoad(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Second)
	code := 3

	snap := NewSnapshot()
	snap.Steps["build"] = flow.StepRecord{
		State:     flow.StateFailed,
		PrevState: flow.StateRunning,
		Runs:      []flow.StepRun{{StartTimestamp: start, EndTimestamp: &end, ExitCode: &code, LogFile: "logs/build/run.txt"}},
	}
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Steps, loaded.Steps)
}

func TestStoreWireFormat(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Update(map[string]flow.StepRecord{
		"a": {State: flow.StateRunning, Runs: []flow.StepRun{{StartTimestamp: start}}},
	}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"steps": {
			"a": {"state": "running", "runs": [{"startTimestamp": "2026-05-01T08:00:00Z"}]}
		}
	}`, string(data))
}

func TestStoreUpdatePreservesAbsentSteps(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Update(map[string]flow.StepRecord{
		"old": {State: flow.StateSucceeded, Runs: []flow.StepRun{}},
		"a":   {State: flow.StateNone, Runs: []flow.StepRun{}},
	}))
	require.NoError(t, store.Update(map[string]flow.StepRecord{
		"a": {State: flow.StateFailed, PrevState: flow.StateRunning, Runs: []flow.StepRun{}},
	}))

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, flow.StepRecord{State: flow.StateSucceeded, Runs: []flow.StepRun{}}, snap.Steps["old"])
	assert.Equal(t, flow.StateFailed, snap.Steps["a"].State)
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(NewSnapshot()))
	require.NoError(t, store.Save(NewSnapshot()))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFileName, entries[0].Name())
}

func TestStoreRejectsNewerVersion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"version": 2, "steps": {}}`), 0644))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, sferrors.HasCode(err, sferrors.ErrCodeSnapshotUnsupported))
}

func TestStoreRejectsCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{"version": 1,`},
		{"unknown state", `{"version": 1, "steps": {"a": {"state": "sleeping", "runs": []}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0644))

			_, err := store.Load()
			require.Error(t, err)
			assert.True(t, sferrors.HasCode(err, sferrors.ErrCodeSnapshotCorrupt))
		})
	}
}

func TestStorePurge(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(NewSnapshot()))

	require.NoError(t, store.Purge())
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Purge(), "purging twice is fine")
}

func TestSnapshotJSONOmitsEmptyPrevState(t *testing.T) {
	snap := NewSnapshot()
	snap.Steps["a"] = flow.StepRecord{State: flow.StateNone, Runs: []flow.StepRun{}}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "prevState")
}
