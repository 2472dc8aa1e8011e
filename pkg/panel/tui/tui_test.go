package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/radiopanel/pkg/l0/proto"
	"github.com/robotalks/radiopanel/pkg/panel"
)

type fakeSource struct {
	view panel.View
}

func (s *fakeSource) View() panel.View { return s.view }

type fakeLight struct {
	calls []bool
	err   error
}

func (l *fakeLight) SetLight(on bool) error {
	l.calls = append(l.calls, on)
	return l.err
}

func TestModelRendersView(t *testing.T) {
	src := &fakeSource{view: panel.View{Reading: proto.Reading{Tuner: 473}, Freq: 980}}
	m := New(src, nil).Model()
	src.view.LightOn = true
	updated, cmd := m.Update(tick(time.Now()))
	require.NotNil(t, cmd)
	out := updated.View()
	require.True(t, strings.Contains(out, "Tuner   473"))
	require.True(t, strings.Contains(out, "Freq    980"))
	require.True(t, strings.Contains(out, "on"))
}

func TestModelToggleLight(t *testing.T) {
	src := &fakeSource{view: panel.View{LightOn: true}}
	light := &fakeLight{}
	m := New(src, light).Model()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, []bool{false}, light.calls)

	src.view.LightOn = false
	m, _ = m.Update(tick(time.Now()))
	light.err = errors.New("stopped")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	require.Equal(t, []bool{false, true}, light.calls)
	require.True(t, strings.Contains(m.View(), "stopped"))
}

func TestModelQuit(t *testing.T) {
	var quit bool
	tui := New(&fakeSource{}, nil)
	tui.OnQuit = func() { quit = true }
	_, cmd := tui.Model().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.True(t, quit)
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
