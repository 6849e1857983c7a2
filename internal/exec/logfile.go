package exec

import (
	"os"
	"path/filepath"
	"time"
)

// LatestLogName is the per-step pointer to the most recent run log
const LatestLogName = "latest.txt"

// LogFilePath returns the log file for a run of step started at ts:
// <logDir>/<step>/run-<timestamp>.txt
func LogFilePath(logDir, step string, ts time.Time) string {
	name := "run-" + ts.UTC().Format("20060102T150405.000000000Z") + ".txt"
	return filepath.Join(logDir, step, name)
}

// LatestLogPath returns the latest.txt pointer for step
func LatestLogPath(logDir, step string) string {
	return filepath.Join(logDir, step, LatestLogName)
}

// UpdateLatest points latest.txt next to logFile at logFile
func UpdateLatest(logFile string) error {
	link := filepath.Join(filepath.Dir(logFile), LatestLogName)
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(filepath.Base(logFile), link)
}

// RemoveLog deletes a run log file. A missing file is not an error.
func RemoveLog(logFile string) error {
	if logFile == "" {
		return nil
	}
	if err := os.Remove(logFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
