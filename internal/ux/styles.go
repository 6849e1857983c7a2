package ux

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/stepflow/internal/flow"
)

// Styles contains lipgloss styles for terminal output
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Running lipgloss.Style
	Plain   lipgloss.Style
}

// DefaultStyles returns the colored styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow
		Running: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Plain: lipgloss.NewStyle(),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Header:  plain,
		Muted:   plain,
		Success: plain,
		Error:   plain,
		Warning: plain,
		Running: plain,
		Plain:   plain,
	}
}

// NewStyles picks colored or plain styles
func NewStyles(noColor bool) Styles {
	if noColor {
		return PlainStyles()
	}
	return DefaultStyles()
}

// ForState returns the style used for a step state
func (s Styles) ForState(state flow.StepState) lipgloss.Style {
	switch state {
	case flow.StateSucceeded:
		return s.Success
	case flow.StateFailed, flow.StateDependencyFailed:
		return s.Error
	case flow.StateRunning:
		return s.Running
	case flow.StateWaitingForRun, flow.StateWaitingForDependency:
		return s.Warning
	case flow.StateDisabled, flow.StateNone:
		return s.Muted
	default:
		return s.Plain
	}
}

// StateIcon returns a one-character marker for a step state
func StateIcon(state flow.StepState) string {
	switch state {
	case flow.StateSucceeded:
		return "✓"
	case flow.StateFailed:
		return "✗"
	case flow.StateDependencyFailed:
		return "⊘"
	case flow.StateRunning:
		return "▶"
	case flow.StateWaitingForRun:
		return "○"
	case flow.StateWaitingForDependency:
		return "…"
	case flow.StateDisabled:
		return "-"
	default:
		return " "
	}
}
