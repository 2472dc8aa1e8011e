package sh

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/robotalks/radiopanel/pkg/l1"
)

// IsPanel accepts radio panels only.
func IsPanel(info l1.ControllerInfo) bool {
	return info.Ref.Type == l1.PanelType
}

// FilterPanels keeps the infos accepted by filter, sorted by name.
func FilterPanels(infos []l1.ControllerInfo, filter func(l1.ControllerInfo) bool) []l1.ControllerInfo {
	res := make([]l1.ControllerInfo, 0, len(infos))
	for _, info := range infos {
		if filter == nil || filter(info) {
			res = append(res, info)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Ref.Name() < res[j].Ref.Name() })
	return res
}

func formatLabels(labels map[string]string) string {
	pairs := make([]string, 0, len(labels))
	for key, val := range labels {
		pairs = append(pairs, key+"="+val)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// FormatInfo prints a single panel in one line.
func FormatInfo(info l1.ControllerInfo) string {
	line := info.Ref.Name()
	if info.Meta.Description != "" {
		line += ": " + info.Meta.Description
	}
	if labels := formatLabels(info.Meta.Labels); labels != "" {
		line += " " + labels
	}
	return line
}

// PanelTable renders discovered panels. The type column only shows up
// when something other than a panel is listed.
func PanelTable(infos []l1.ControllerInfo) string {
	withType := false
	for _, info := range infos {
		withType = withType || !IsPanel(info)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		})
	if withType {
		t.Headers("TYPE", "ID", "DESCRIPTION", "LABELS")
	} else {
		t.Headers("ID", "DESCRIPTION", "LABELS")
	}
	for _, info := range infos {
		row := []string{info.Ref.ID, info.Meta.Description, formatLabels(info.Meta.Labels)}
		if withType {
			row = append([]string{info.Ref.Type}, row...)
		}
		t.Row(row...)
	}
	return t.String()
}

// Discover lists what the registry knows, panels only unless all.
func (s *Shell) Discover(all bool) ([]l1.ControllerInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, err
	}
	infos, err := connector.Discover(context.Background())
	if err != nil {
		return nil, err
	}
	if all {
		return FilterPanels(infos, nil), nil
	}
	return FilterPanels(infos, IsPanel), nil
}

// ChoosePanel discovers panels and asks for one when there's more than one.
func (s *Shell) ChoosePanel() (l1.ControllerRef, error) {
	infos, err := s.Discover(false)
	if err != nil {
		return l1.ControllerRef{}, err
	}
	switch {
	case len(infos) == 0:
		return l1.ControllerRef{}, fmt.Errorf("no panel discovered")
	case len(infos) == 1:
		return infos[0].Ref, nil
	case !s.Interactive:
		return l1.ControllerRef{}, fmt.Errorf("%d panels discovered, specify one", len(infos))
	}
	items := make([]string, len(infos))
	for n, info := range infos {
		items[n] = FormatInfo(info)
	}
	return infos[s.Shell.MultiChoice(items, "Which panel?")].Ref, nil
}

var (
	// DiscoverCmd lists panels.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "[-all]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			all := len(c.Args) > 0 && c.Args[0] == "-all"
			infos, err := s.Discover(all)
			if err != nil {
				c.Err(err)
				return
			}
			switch {
			case s.OutputJSON:
				out, err := json.Marshal(infos)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
			case len(infos) == 0:
				c.Println("No panels found")
			default:
				c.Println(PanelTable(infos))
			}
		},
	}

	// ConnectCmd connects a panel.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID | TYPE/ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var (
				ref l1.ControllerRef
				err error
			)
			if len(c.Args) > 0 {
				ref, err = l1.ParseControllerRef(c.Args[0])
			} else {
				ref, err = s.ChoosePanel()
			}
			if err == nil {
				err = s.Connect(ref)
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current panel.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
