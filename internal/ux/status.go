package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/felixgeelhaar/stepflow/internal/flow"
)

// RenderStatus renders one row per step: state, name, last run and tags
func RenderStatus(f *flow.Flow, styles Styles, now time.Time) string {
	steps := f.Steps()
	if len(steps) == 0 {
		return styles.Muted.Render("no steps defined") + "\n"
	}

	nameWidth, stateWidth := len("STEP"), len("STATE")
	for _, s := range steps {
		nameWidth = max(nameWidth, lipgloss.Width(s.Name))
		stateWidth = max(stateWidth, len(s.State))
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(fmt.Sprintf("  %-*s  %-*s  %s", stateWidth, "STATE", nameWidth, "STEP", "LAST RUN")))
	b.WriteString("\n")

	for _, s := range steps {
		style := styles.ForState(s.State)
		state := style.Render(fmt.Sprintf("%s %-*s", StateIcon(s.State), stateWidth, s.State))
		name := fmt.Sprintf("%-*s", nameWidth, s.Name)

		line := fmt.Sprintf("%s  %s  %s", state, name, describeRun(s.LastRun(), now))
		if len(s.Tags) > 0 {
			line += "  " + styles.Muted.Render("["+strings.Join(s.Tags, ", ")+"]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderCounts(f.Counts(), styles))
	b.WriteString("\n")
	return b.String()
}

func describeRun(run *flow.StepRun, now time.Time) string {
	if run == nil {
		return "-"
	}
	if d, ok := run.Duration(); ok {
		code := ""
		if run.ExitCode != nil {
			code = fmt.Sprintf(", exit %d", *run.ExitCode)
		}
		return fmt.Sprintf("%s (%s%s)", humanize.RelTime(*run.EndTimestamp, now, "ago", "from now"), FormatDuration(d), code)
	}
	return fmt.Sprintf("running for %s", FormatDuration(now.Sub(run.StartTimestamp)))
}

func renderCounts(counts map[flow.StepState]int, styles Styles) string {
	var parts []string
	for _, state := range flow.States() {
		if n := counts[state]; n > 0 {
			parts = append(parts, styles.ForState(state).Render(fmt.Sprintf("%d %s", n, state)))
		}
	}
	return strings.Join(parts, ", ")
}

// FormatDuration renders d rounded for humans
func FormatDuration(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	case d < time.Hour:
		return d.Round(time.Second).String()
	default:
		return d.Round(time.Minute).String()
	}
}
