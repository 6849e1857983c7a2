package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// CommandContext holds the persistent flags of one invocation. Commands
// build it from their own flag set instead of reading package globals.
type CommandContext struct {
	// Input
	WorkflowFile string
	StateDir     string

	// Output control
	Format  string
	NoColor bool

	// Overrides for config.yaml; zero values mean "not given"
	LogLevel    string
	LogFormat   string
	MaxParallel *int
	Retention   *int
}

// NewCommandContext extracts command context from cobra.Command flags.
// NO_COLOR in the environment disables color like --no-color does.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	workflowFile, err := flags.GetString("file")
	if err != nil {
		return nil, err
	}

	stateDir, err := flags.GetString("dir")
	if err != nil {
		return nil, err
	}

	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}

	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}

	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return nil, err
	}

	cc := &CommandContext{
		WorkflowFile: workflowFile,
		StateDir:     stateDir,
		Format:       format,
		NoColor:      noColor || os.Getenv("NO_COLOR") != "",
		LogLevel:     logLevel,
		LogFormat:    logFormat,
	}

	if flags.Changed("max-parallel") {
		n, err := flags.GetInt("max-parallel")
		if err != nil {
			return nil, err
		}
		cc.MaxParallel = &n
	}

	if flags.Changed("retention") {
		n, err := flags.GetInt("retention")
		if err != nil {
			return nil, err
		}
		cc.Retention = &n
	}

	return cc, nil
}
