package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateDashboard state = iota
	stateDeviceDetail
)

type RootModel struct {
	State     state
	Session   *Session
	Dashboard DashboardModel
	Detail    DeviceDetailModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(s *Session) RootModel {
	return RootModel{
		State:     stateDashboard,
		Session:   s,
		Dashboard: NewDashboardModel(s, 0, 0),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Dashboard.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Dashboard.Table.SetHeight(tableHeight(msg.Height))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case stateDashboard:
		if sel, ok := msg.(DeviceSelectedMsg); ok {
			m.State = stateDeviceDetail
			m.Detail = NewDeviceDetailModel(m.Session, sel.Device, m.width, m.height)
			return m, m.Detail.Init()
		}
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
			m.Quitting = true
		}
		m.Dashboard, cmd = m.Dashboard.Update(msg)

	case stateDeviceDetail:
		if _, ok := msg.(BackToDashboardMsg); ok {
			m.State = stateDashboard
			return m, m.Dashboard.Init() // refresh list
		}
		m.Detail, cmd = m.Detail.Update(msg)
	}
	return m, cmd
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateDashboard:
		return m.Dashboard.View()
	case stateDeviceDetail:
		return m.Detail.View()
	}
	return "Unknown state"
}
