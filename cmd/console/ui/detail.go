package ui

import (
	"fmt"
	"strings"

	"echo-relay/network"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeCommand
	modeAlias
)

// BackToDashboardMsg signals transition back to dashboard
type BackToDashboardMsg struct{}

type DeviceDetailModel struct {
	Session *Session
	Device  network.DeviceRecord
	Width   int
	Height  int

	Input textinput.Model
	Mode  inputMode
	Echo  viewport.Model

	Status string
	Err    error
}

func NewDeviceDetailModel(s *Session, dev network.DeviceRecord, width, height int) DeviceDetailModel {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	vp := viewport.New(echoWidth(width), echoHeight(height))
	vp.Style = lipgloss.NewStyle().PaddingLeft(1)
	vp.SetContent("Press e to fetch the latest echo.")

	return DeviceDetailModel{
		Session: s,
		Device:  dev,
		Width:   width,
		Height:  height,
		Input:   ti,
		Echo:    vp,
	}
}

func echoWidth(width int) int   { return max(width-6, 40) }
func echoHeight(height int) int { return max(height-12, 6) }

func (m DeviceDetailModel) Init() tea.Cmd {
	return m.Session.FetchEcho(m.Device.DeviceID)
}

func (m DeviceDetailModel) Update(msg tea.Msg) (DeviceDetailModel, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok && m.Mode != modeBrowse {
		return m.updateInput(key)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackToDashboardMsg{} }
		case "c":
			m.Mode = modeCommand
			m.Input.Placeholder = "command to run on the device"
			m.Input.SetValue("")
			return m, m.Input.Focus()
		case "a":
			m.Mode = modeAlias
			m.Input.Placeholder = "new alias"
			m.Input.SetValue(m.Device.Alias)
			m.Input.CursorEnd()
			return m, m.Input.Focus()
		case "e", "r":
			m.Status = "Fetching latest echo..."
			return m, m.Session.FetchEcho(m.Device.DeviceID)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Echo.Width = echoWidth(msg.Width)
		m.Echo.Height = echoHeight(msg.Height)

	case actionDoneMsg:
		if msg.DeviceID != m.Device.DeviceID {
			return m, nil
		}
		m.Err = msg.Err
		m.Status = msg.Text
		if msg.Err == nil && msg.Alias != "" {
			m.Device.Alias = msg.Alias
		}
		return m, nil

	case echoLoadedMsg:
		if msg.DeviceID != m.Device.DeviceID {
			return m, nil
		}
		if msg.Err != nil {
			m.Err = fmt.Errorf("fetching echo failed: %s", reason(msg.Err))
			return m, nil
		}
		m.Err = nil
		m.Status = ""
		m.Echo.SetContent(renderEcho(msg.Echo))
		m.Echo.GotoTop()
		return m, nil
	}

	m.Echo, cmd = m.Echo.Update(msg)
	return m, cmd
}

func (m DeviceDetailModel) updateInput(key tea.KeyMsg) (DeviceDetailModel, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.Mode = modeBrowse
		m.Input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.Input.Value())
		mode := m.Mode
		m.Mode = modeBrowse
		m.Input.Blur()
		m.Input.SetValue("")
		switch {
		case mode == modeAlias && value == "":
			m.Err = fmt.Errorf("alias cannot be empty")
			return m, nil
		case mode == modeCommand && value == "":
			m.Err = fmt.Errorf("command cannot be empty")
			return m, nil
		case mode == modeAlias:
			m.Status = "Renaming..."
			return m, m.Session.SetAlias(m.Device.DeviceID, value)
		default:
			m.Status = "Sending command..."
			return m, m.Session.SendCommand(m.Device.DeviceID, value)
		}
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(key)
	return m, cmd
}

func renderEcho(echo *network.EchoRecord) string {
	if echo == nil {
		return "No result yet for this device."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Echo at %s\n\n", echo.Timestamp)
	b.WriteString(focusedStyle.Render("Output:") + "\n")
	b.WriteString(orNone(echo.Output) + "\n\n")
	b.WriteString(focusedStyle.Render("Error:") + "\n")
	b.WriteString(orNone(echo.Error))
	return b.String()
}

func orNone(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return "(none)"
	}
	return s
}

func (m DeviceDetailModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s (%s)", m.Device.Alias, m.Device.DeviceID))
	meta := blurredStyle.Render("Last online: " + m.Device.LastOnline)

	var prompt string
	switch m.Mode {
	case modeCommand:
		prompt = "Command: " + m.Input.View()
	case modeAlias:
		prompt = "Alias: " + m.Input.View()
	}

	echo := panelStyle.Width(echoWidth(m.Width)).Render(m.Echo.View())

	parts := []string{title, meta, "", echo}
	if prompt != "" {
		parts = append(parts, prompt)
	}
	if m.Status != "" {
		parts = append(parts, statusMessageStyle(m.Status))
	}
	if m.Err != nil {
		parts = append(parts, errorMessageStyle(m.Err.Error()))
	}

	help := "c: send command • a: rename • e: fetch echo • esc: devices"
	if m.Mode != modeBrowse {
		help = "enter: submit • esc: cancel"
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
