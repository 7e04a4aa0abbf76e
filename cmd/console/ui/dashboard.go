package ui

import (
	"strconv"
	"strings"

	"echo-relay/network"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type DashboardModel struct {
	Session *Session
	Table   table.Model
	Devices []network.DeviceRecord
	Err     error
}

// DeviceSelectedMsg opens the detail view for one device.
type DeviceSelectedMsg struct {
	Device network.DeviceRecord
}

func tableHeight(height int) int {
	return max(height-10, 5)
}

func NewDashboardModel(s *Session, width, height int) DashboardModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Device ID", Width: 38},
		{Title: "Alias", Width: 20},
		{Title: "Last Online", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	sStyle := table.DefaultStyles()
	sStyle.Header = sStyle.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	sStyle.Selected = sStyle.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(sStyle)

	return DashboardModel{
		Session: s,
		Table:   t,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.Session.LoadDevices
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.Session.LoadDevices
		case "enter":
			idx := m.Table.Cursor()
			if idx >= 0 && idx < len(m.Devices) {
				dev := m.Devices[idx]
				return m, func() tea.Msg { return DeviceSelectedMsg{Device: dev} }
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}

	case devicesLoadedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Devices = msg.Devices
		rows := make([]table.Row, len(msg.Devices))
		for i, d := range msg.Devices {
			rows[i] = table.Row{strconv.Itoa(i + 1), d.DeviceID, d.Alias, d.LastOnline}
		}
		m.Table.SetRows(rows)
		if m.Table.Cursor() >= len(rows) {
			m.Table.SetCursor(0)
		}
		return m, nil
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Remote console - Devices") + "\n\n")
	if len(m.Devices) == 0 && m.Err == nil {
		b.WriteString("No devices online.\n")
	} else {
		b.WriteString(m.Table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("enter: open device • r: refresh • q: quit"))

	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle("Failed to list devices: "+reason(m.Err)))
	}
	return b.String()
}
