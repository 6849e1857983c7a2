package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/ux"
	"github.com/felixgeelhaar/stepflow/internal/workflow"
)

// progressPrinter reports engine events as one line each
type progressPrinter struct {
	w      io.Writer
	styles ux.Styles
}

func newProgressPrinter(w io.Writer, styles ux.Styles) *progressPrinter {
	return &progressPrinter{w: w, styles: styles}
}

func (p *progressPrinter) observe(ev workflow.Event) {
	style := p.styles.ForState(ev.State)
	marker := style.Render(ux.StateIcon(ev.State))

	switch ev.State {
	case flow.StateRunning:
		fmt.Fprintf(p.w, "%s %s\n", marker, ev.Step)
	case flow.StateSucceeded:
		fmt.Fprintf(p.w, "%s %s %s\n", marker, ev.Step, p.styles.Muted.Render(ux.FormatDuration(ev.Duration)))
	default:
		line := fmt.Sprintf("%s %s %s", marker, style.Render(fmt.Sprintf("%s (exit %d)", ev.Step, ev.ExitCode)), p.styles.Muted.Render(ux.FormatDuration(ev.Duration)))
		if ev.LogFile != "" {
			line += p.styles.Muted.Render(" log: " + ev.LogFile)
		}
		fmt.Fprintln(p.w, line)
		if ev.Err != nil {
			fmt.Fprintf(p.w, "  %s\n", p.styles.Error.Render(ev.Err.Error()))
		}
	}
}

func (p *progressPrinter) summary(s *workflow.RunSummary) {
	var parts []string
	for _, state := range flow.States() {
		if n := s.Counts[state]; n > 0 {
			parts = append(parts, p.styles.ForState(state).Render(fmt.Sprintf("%d %s", n, state)))
		}
	}

	fmt.Fprintf(p.w, "\n%s %d step(s) launched in %s: %s\n",
		p.styles.Title.Render("stepflow"), s.Launched, ux.FormatDuration(s.Duration), strings.Join(parts, ", "))
	if len(s.Failed) > 0 {
		fmt.Fprintf(p.w, "%s %s\n", p.styles.Error.Render("failed:"), strings.Join(s.Failed, ", "))
	}
}

// printChanged reports the steps a manual operation touched
func printChanged(w io.Writer, styles ux.Styles, verb string, steps []*flow.Step) {
	if len(steps) == 0 {
		fmt.Fprintf(w, "%s: nothing to do\n", verb)
		return
	}
	for _, s := range steps {
		fmt.Fprintf(w, "%s %s %s\n", verb, s.Name, styles.ForState(s.State).Render(string(s.State)))
	}
}

// lockedWriter serializes writes from step output and progress lines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// syncWriter leaves files alone so child processes inherit the terminal
func syncWriter(w io.Writer) io.Writer {
	if _, ok := w.(*os.File); ok {
		return w
	}
	return &lockedWriter{w: w}
}
