package ux

import (
	"path/filepath"

	"github.com/felixgeelhaar/stepflow/internal/checkpoint"
)

// DefaultStateDir is the state directory used when --dir is not given
const DefaultStateDir = ".stepflow"

// PathDefaults derives the files stepflow keeps under its state directory
type PathDefaults struct {
	StateDir string
}

// NewPathDefaults creates PathDefaults rooted at dir, or at DefaultStateDir
// when dir is empty
func NewPathDefaults(dir string) *PathDefaults {
	if dir == "" {
		dir = DefaultStateDir
	}
	return &PathDefaults{StateDir: dir}
}

// SnapshotFile returns the path of the persisted state snapshot
func (pd *PathDefaults) SnapshotFile() string {
	return filepath.Join(pd.StateDir, checkpoint.DefaultFileName)
}

// LogDir returns the directory holding per-step run logs
func (pd *PathDefaults) LogDir() string {
	return filepath.Join(pd.StateDir, "logs")
}

// ConfigFile returns the path of the optional config file
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.StateDir, "config.yaml")
}
