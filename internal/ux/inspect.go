package ux

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/stepflow/internal/flow"
)

// Inspection is a serializable view of a flow used by the inspect command
type Inspection struct {
	Env          map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	InitialSteps []string          `json:"initialSteps" yaml:"initialSteps"`
	FinalSteps   []string          `json:"finalSteps" yaml:"finalSteps"`
	Steps        []StepInspection  `json:"steps" yaml:"steps"`
}

// StepInspection describes one step and its relations
type StepInspection struct {
	Name              string            `json:"name" yaml:"name"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	Command           string            `json:"cmd" yaml:"cmd"`
	Cwd               string            `json:"cwd" yaml:"cwd"`
	Log               string            `json:"log" yaml:"log"`
	Env               map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Tags              []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	State             flow.StepState    `json:"state" yaml:"state"`
	PrevState         flow.StepState    `json:"prevState,omitempty" yaml:"prevState,omitempty"`
	Deps              []string          `json:"deps,omitempty" yaml:"deps,omitempty"`
	DirectDescendants []string          `json:"directDescendants,omitempty" yaml:"directDescendants,omitempty"`
	LastRun           *RunInspection    `json:"lastRun,omitempty" yaml:"lastRun,omitempty"`
	Runs              int               `json:"runs" yaml:"runs"`
}

// RunInspection describes a single run
type RunInspection struct {
	Start    time.Time  `json:"start" yaml:"start"`
	End      *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	ExitCode *int       `json:"exitCode,omitempty" yaml:"exitCode,omitempty"`
	LogFile  string     `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// BuildInspection captures the current state of f
func BuildInspection(f *flow.Flow) *Inspection {
	in := &Inspection{
		Env:          f.Env,
		InitialSteps: names(f.InitialSteps()),
		FinalSteps:   names(f.FinalSteps()),
		Steps:        make([]StepInspection, 0, f.Len()),
	}

	for _, s := range f.Steps() {
		si := StepInspection{
			Name:              s.Name,
			Description:       s.Description,
			Command:           s.Command,
			Cwd:               s.Cwd,
			Log:               string(s.Log),
			Env:               s.Env,
			Tags:              s.Tags,
			State:             s.State,
			PrevState:         s.PrevState,
			Deps:              s.Deps,
			DirectDescendants: names(f.DirectDescendants(s)),
			Runs:              len(s.Runs),
		}
		if run := s.LastRun(); run != nil {
			si.LastRun = &RunInspection{
				Start:    run.StartTimestamp,
				End:      run.EndTimestamp,
				ExitCode: run.ExitCode,
				LogFile:  run.LogFile,
			}
		}
		in.Steps = append(in.Steps, si)
	}
	return in
}

// String renders the inspection as indented text
func (in *Inspection) String() string {
	var b strings.Builder

	if len(in.Env) > 0 {
		b.WriteString("env:\n")
		writeEnv(&b, in.Env, "  ")
	}
	fmt.Fprintf(&b, "initial: %s\n", joinOrDash(in.InitialSteps))
	fmt.Fprintf(&b, "final:   %s\n", joinOrDash(in.FinalSteps))

	for _, s := range in.Steps {
		fmt.Fprintf(&b, "\n%s [%s]\n", s.Name, s.State)
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s\n", s.Description)
		}
		fmt.Fprintf(&b, "  cmd:  %s\n", s.Command)
		fmt.Fprintf(&b, "  cwd:  %s\n", s.Cwd)
		fmt.Fprintf(&b, "  log:  %s\n", s.Log)
		if s.PrevState != "" {
			fmt.Fprintf(&b, "  prev: %s\n", s.PrevState)
		}
		if len(s.Tags) > 0 {
			fmt.Fprintf(&b, "  tags: %s\n", strings.Join(s.Tags, ", "))
		}
		fmt.Fprintf(&b, "  deps: %s\n", joinOrDash(s.Deps))
		fmt.Fprintf(&b, "  next: %s\n", joinOrDash(s.DirectDescendants))
		if len(s.Env) > 0 {
			b.WriteString("  env:\n")
			writeEnv(&b, s.Env, "    ")
		}
		if s.LastRun != nil {
			fmt.Fprintf(&b, "  last run: %s", s.LastRun.Start.Format(time.RFC3339))
			if s.LastRun.ExitCode != nil {
				fmt.Fprintf(&b, " exit %d", *s.LastRun.ExitCode)
			}
			if s.LastRun.LogFile != "" {
				fmt.Fprintf(&b, " (%s)", s.LastRun.LogFile)
			}
			fmt.Fprintf(&b, ", %d run(s) kept\n", s.Runs)
		}
	}
	return b.String()
}

func writeEnv(b *strings.Builder, env map[string]string, indent string) {
	for _, k := range slices.Sorted(maps.Keys(env)) {
		fmt.Fprintf(b, "%s%s=%s\n", indent, k, env[k])
	}
}

func names(steps []*flow.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name
	}
	return out
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
