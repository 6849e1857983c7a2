// Package checkpoint persists per-step state between invocations.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/flow"
)

// SnapshotVersion is the newest snapshot format this build understands
const SnapshotVersion = 1

// DefaultFileName is the snapshot file name inside the state directory
const DefaultFileName = "state.json"

// Snapshot is the on-disk state of every step ever recorded
type Snapshot struct {
	Version int                        `json:"version"`
	Steps   map[string]flow.StepRecord `json:"steps"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Steps:   make(map[string]flow.StepRecord),
	}
}

// Store reads and writes the snapshot file
type Store struct {
	path string
}

// NewStore creates a store backed by the snapshot file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, sferrors.Wrap(sferrors.ErrCodeSnapshotRead, fmt.Sprintf("failed to read state snapshot %s", s.path), err)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, sferrors.NewSnapshotCorruptError(s.path, err)
	}

	if snap.Version > SnapshotVersion {
		return nil, sferrors.New(sferrors.ErrCodeSnapshotUnsupported,
			fmt.Sprintf("state snapshot %s has version %d, newest supported is %d", s.path, snap.Version, SnapshotVersion)).
			WithSuggestion("Upgrade stepflow or run 'stepflow purge' to start over")
	}
	if snap.Steps == nil {
		snap.Steps = make(map[string]flow.StepRecord)
	}
	snap.Version = SnapshotVersion

	return snap, nil
}

// Save replaces the snapshot file with snap. The file is written to a
// temporary sibling first and renamed into place.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	snap.Version = SnapshotVersion

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return sferrors.NewSnapshotWriteError(s.path, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return sferrors.NewSnapshotWriteError(s.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return sferrors.NewSnapshotWriteError(s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return sferrors.NewSnapshotWriteError(s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return sferrors.NewSnapshotWriteError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return sferrors.NewSnapshotWriteError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return sferrors.NewSnapshotWriteError(s.path, err)
	}

	return nil
}

// Update upserts records into the snapshot. Entries for steps not present in
// records are kept as they are.
func (s *Store) Update(records map[string]flow.StepRecord) error {
	snap, err := s.Load()
	if err != nil {
		return err
	}
	for name, rec := range records {
		snap.Steps[name] = rec
	}
	return s.Save(snap)
}

// Purge deletes the snapshot file
func (s *Store) Purge() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return sferrors.Wrap(sferrors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to delete state snapshot %s", s.path), err)
	}
	return nil
}
