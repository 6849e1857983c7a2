package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/ux"
)

// RefreshInterval is how often the watch view reloads state
const RefreshInterval = time.Second

// Loader rebuilds the flow from the workflow file and the persisted snapshot
type Loader func() (*flow.Flow, error)

// refreshMsg carries the result of a reload
type refreshMsg struct {
	flow *flow.Flow
	err  error
	at   time.Time
}

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

// WatchModel is the bubbletea model behind `status --watch`
type WatchModel struct {
	load     Loader
	styles   ux.Styles
	clock    func() time.Time
	interval time.Duration
	spinner  spinner.Model

	flow     *flow.Flow
	err      error
	updated  time.Time
	quitting bool
}

// NewWatchModel creates a watch model that reloads through load
func NewWatchModel(load Loader, styles ux.Styles) WatchModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Running
	return WatchModel{
		load:     load,
		styles:   styles,
		clock:    time.Now,
		interval: RefreshInterval,
		spinner:  sp,
	}
}

// Init starts the spinner and the first reload
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reload())
}

// Update handles key presses, reloads and spinner ticks
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m, m.reload()
		}
		return m, nil

	case refreshMsg:
		m.updated = msg.at
		m.err = msg.err
		if msg.err == nil {
			m.flow = msg.flow
		}
		return m, m.scheduleReload()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the status table with a header and help line
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	header := fmt.Sprintf("%s %s", m.spinner.View(), m.styles.Title.Render("stepflow status"))
	if !m.updated.IsZero() {
		header += m.styles.Muted.Render(fmt.Sprintf("  updated %s", m.updated.Format(time.TimeOnly)))
	}

	body := m.styles.Muted.Render("loading...") + "\n"
	if m.flow != nil {
		body = ux.RenderStatus(m.flow, m.styles, m.clock())
	}
	if m.err != nil {
		body += m.styles.Error.Render(fmt.Sprintf("reload failed: %v", m.err)) + "\n"
	}

	help := m.styles.Muted.Render(fmt.Sprintf("%s %s  %s %s",
		keys.Quit.Help().Key, keys.Quit.Help().Desc,
		keys.Refresh.Help().Key, keys.Refresh.Help().Desc))

	return header + "\n\n" + body + "\n" + help + "\n"
}

func (m WatchModel) reload() tea.Cmd {
	return func() tea.Msg {
		f, err := m.load()
		if f != nil {
			f.Clean()
		}
		return refreshMsg{flow: f, err: err, at: m.clock()}
	}
}

func (m WatchModel) scheduleReload() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return m.reload()()
	})
}

// Watch runs the watch view until the user quits
func Watch(load Loader, styles ux.Styles, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewWatchModel(load, styles), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
