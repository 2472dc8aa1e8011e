// Package tui renders the panel view in a terminal.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/glog"

	"github.com/robotalks/radiopanel/pkg/panel"
)

// DefaultRefresh is how often the view is redrawn.
const DefaultRefresh = 100 * time.Millisecond

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3)
	textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	onStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Source provides the view to render.
type Source interface {
	View() panel.View
}

// LightSetter switches the light.
type LightSetter interface {
	SetLight(on bool) error
}

// TUI shows the panel until quit.
type TUI struct {
	Source  Source
	Light   LightSetter
	Refresh time.Duration
	// OnQuit is called when the user quits.
	OnQuit func()
}

// tick is the tea.Msg to redraw the view.
type tick time.Time

type model struct {
	tui  *TUI
	view panel.View
	err  error
}

// New creates a TUI.
func New(src Source, light LightSetter) *TUI {
	return &TUI{Source: src, Light: light, Refresh: DefaultRefresh}
}

// Model is the bubbletea model of the TUI.
func (t *TUI) Model() tea.Model {
	return model{tui: t, view: t.Source.View()}
}

// Run implements framework.Runnable. It returns nil when the user quits.
func (t *TUI) Run(ctx context.Context) error {
	_, err := tea.NewProgram(t.Model(), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (m model) tick() tea.Cmd {
	refresh := m.tui.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return tea.Tick(refresh, func(t time.Time) tea.Msg { return tick(t) })
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tick:
		m.view = m.tui.Source.View()
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if fn := m.tui.OnQuit; fn != nil {
				fn()
			}
			return m, tea.Quit
		case "l", " ", "space":
			if m.tui.Light != nil {
				m.err = m.tui.Light.SetLight(!m.view.LightOn)
				if m.err != nil {
					glog.Warningf("set light: %v", m.err)
				}
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	lines := m.view.Lines()
	// tuner, freq and knobs
	for _, line := range lines[:5] {
		b.WriteString(textStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(stateLine(lines[5], m.view.LightOn))
	b.WriteByte('\n')
	b.WriteString(stateLine(lines[6], m.view.LinkUp))
	if m.err != nil {
		b.WriteString("\n" + offStyle.Render(m.err.Error()))
	}
	return frameStyle.Render(b.String()) + "\n" +
		helpStyle.Render("l/space: toggle light  q: quit") + "\n"
}

func stateLine(line string, ok bool) string {
	if ok {
		return onStyle.Render(line)
	}
	return offStyle.Render(line)
}
