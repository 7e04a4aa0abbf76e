package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"echo-relay/network"

	tea "github.com/charmbracelet/bubbletea"
)

// Directory is the coordinator surface the TUI drives.
type Directory interface {
	ListDevices(ctx context.Context) ([]network.DeviceRecord, error)
	SetAlias(ctx context.Context, deviceID, alias string) error
	SendCommand(ctx context.Context, deviceID, command string) error
	GetEcho(ctx context.Context, deviceID string) (*network.EchoRecord, error)
}

// Session turns directory calls into tea.Cmds. Every request gets its own
// timeout so a stalled coordinator never freezes the UI for good.
type Session struct {
	Dir     Directory
	Timeout time.Duration
}

func NewSession(dir Directory, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Session{Dir: dir, Timeout: timeout}
}

type devicesLoadedMsg struct {
	Devices []network.DeviceRecord
	Err     error
}

type actionDoneMsg struct {
	DeviceID string
	Alias    string // set when the action was a rename
	Text     string
	Err      error
}

type echoLoadedMsg struct {
	DeviceID string
	Echo     *network.EchoRecord
	Err      error
}

func (s *Session) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Timeout)
}

// LoadDevices is a tea.Cmd fetching the device directory.
func (s *Session) LoadDevices() tea.Msg {
	ctx, cancel := s.requestContext()
	defer cancel()
	devices, err := s.Dir.ListDevices(ctx)
	return devicesLoadedMsg{Devices: devices, Err: err}
}

func (s *Session) SetAlias(deviceID, alias string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		if err := s.Dir.SetAlias(ctx, deviceID, alias); err != nil {
			return actionDoneMsg{DeviceID: deviceID, Err: fmt.Errorf("rename failed: %s", reason(err))}
		}
		return actionDoneMsg{DeviceID: deviceID, Alias: alias, Text: "Alias updated: " + alias}
	}
}

func (s *Session) SendCommand(deviceID, command string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		if err := s.Dir.SendCommand(ctx, deviceID, command); err != nil {
			return actionDoneMsg{DeviceID: deviceID, Err: fmt.Errorf("send failed: %s", reason(err))}
		}
		return actionDoneMsg{DeviceID: deviceID, Text: fmt.Sprintf("Command %q accepted, press e to fetch the result", command)}
	}
}

func (s *Session) FetchEcho(deviceID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.requestContext()
		defer cancel()
		echo, err := s.Dir.GetEcho(ctx, deviceID)
		return echoLoadedMsg{DeviceID: deviceID, Echo: echo, Err: err}
	}
}

func reason(err error) string {
	var se *network.StatusError
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(s *Session) error {
	_, err := tea.NewProgram(NewRootModel(s), tea.WithAltScreen()).Run()
	return err
}
