package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is the minimum severity the diagnostic log emits
type Level int

const (
	// LevelDebug includes scheduling decisions and source locations
	LevelDebug Level = iota
	// LevelInfo reports step starts and finishes
	LevelInfo
	// LevelWarn reports recoverable problems such as stale snapshots
	LevelWarn
	// LevelError reports failures only
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

var slogLevels = [...]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func (l Level) valid() bool {
	return l >= LevelDebug && l <= LevelError
}

// String returns the name accepted by ParseLevel
func (l Level) String() string {
	if !l.valid() {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ToSlogLevel maps the level onto slog. Out of range values map to info.
func (l Level) ToSlogLevel() slog.Level {
	if !l.valid() {
		return slog.LevelInfo
	}
	return slogLevels[l]
}

// LevelNames lists the accepted level names from lowest to highest severity
func LevelNames() []string {
	return append([]string(nil), levelNames[:]...)
}

// ParseLevel resolves a level name, ignoring case. "warning" is accepted as
// an alias for warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for i, candidate := range levelNames {
		if candidate == name {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q, want one of %s", s, strings.Join(levelNames[:], ", "))
}
