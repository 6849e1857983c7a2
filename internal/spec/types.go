package spec

import "fmt"

// LogMode selects where a step's output goes
type LogMode string

const (
	// LogModeFile redirects stdout and stderr into a per-run log file
	LogModeFile LogMode = "file"
	// LogModeConsole streams output to the invoking terminal
	LogModeConsole LogMode = "console"
)

// ParseLogMode validates a log mode name. An empty value selects file mode.
func ParseLogMode(value string) (LogMode, error) {
	switch LogMode(value) {
	case "", LogModeFile:
		return LogModeFile, nil
	case LogModeConsole:
		return LogModeConsole, nil
	default:
		return "", fmt.Errorf("log mode %q must be %q or %q", value, LogModeFile, LogModeConsole)
	}
}

// Workflow is a parsed workflow file
type Workflow struct {
	// Path is the file the workflow was loaded from
	Path string

	// Env applies to every step; step env overrides it
	Env map[string]string

	// Steps in declaration order
	Steps []StepDefinition

	// UnknownFields lists top-level keys the loader did not recognise
	UnknownFields []string

	// Errors holds top-level values the loader could not decode
	Errors []error
}

// StepDefinition is one declared step
type StepDefinition struct {
	Name        string
	Command     string
	Cwd         string
	Description string
	Env         map[string]string
	Tags        []string
	Log         LogMode
	Deps        []string

	// DepsMalformed is set when deps was present but not a list of strings
	DepsMalformed bool

	// UnknownFields lists step keys the loader did not recognise
	UnknownFields []string

	// FieldErrors holds step values the loader could not decode, including a
	// missing cmd
	FieldErrors []error
}
