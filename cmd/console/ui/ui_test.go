package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"echo-relay/network"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	devices  []network.DeviceRecord
	echo     *network.EchoRecord
	aliases  map[string]string
	commands map[string]string
}

func newFake() *fakeDirectory {
	return &fakeDirectory{
		devices: []network.DeviceRecord{
			{DeviceID: "dev-1", Alias: "office", LastOnline: "2024-05-01 10:00:00"},
			{DeviceID: "dev-2", Alias: "lab", LastOnline: "2024-05-01 10:00:05"},
		},
		aliases:  map[string]string{},
		commands: map[string]string{},
	}
}

func (f *fakeDirectory) ListDevices(ctx context.Context) ([]network.DeviceRecord, error) {
	return f.devices, nil
}

func (f *fakeDirectory) SetAlias(ctx context.Context, id, alias string) error {
	f.aliases[id] = alias
	return nil
}

func (f *fakeDirectory) SendCommand(ctx context.Context, id, command string) error {
	if id == "gone" {
		return &network.StatusError{Status: 404, Msg: "Device not found"}
	}
	f.commands[id] = command
	return nil
}

func (f *fakeDirectory) GetEcho(ctx context.Context, id string) (*network.EchoRecord, error) {
	return f.echo, nil
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestDashboardListsAndSelects(t *testing.T) {
	s := NewSession(newFake(), time.Second)
	m := NewDashboardModel(s, 100, 30)

	m, _ = m.Update(m.Init()())
	require.Len(t, m.Devices, 2)
	assert.Contains(t, m.View(), "office")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(DeviceSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "dev-1", sel.Device.DeviceID)
}

func TestDashboardShowsLoadError(t *testing.T) {
	m := NewDashboardModel(NewSession(newFake(), time.Second), 100, 30)
	m, _ = m.Update(devicesLoadedMsg{Err: errors.New("connection refused")})
	assert.Contains(t, m.View(), "connection refused")
}

func TestDetailSendsCommand(t *testing.T) {
	dir := newFake()
	m := NewDeviceDetailModel(NewSession(dir, time.Second), dir.devices[1], 100, 30)

	m, _ = m.Update(keys("c"))
	m, _ = m.Update(keys("uptime"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.Equal(t, map[string]string{"dev-2": "uptime"}, dir.commands)
	assert.Contains(t, m.Status, "accepted")
	assert.NoError(t, m.Err)
}

func TestDetailRejectsEmptyCommand(t *testing.T) {
	dir := newFake()
	m := NewDeviceDetailModel(NewSession(dir, time.Second), dir.devices[0], 100, 30)

	m, _ = m.Update(keys("c"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.EqualError(t, m.Err, "command cannot be empty")
	assert.Empty(t, dir.commands)
}

func TestDetailRenamesWithCurrentAliasPrefilled(t *testing.T) {
	dir := newFake()
	m := NewDeviceDetailModel(NewSession(dir, time.Second), dir.devices[0], 100, 30)

	m, _ = m.Update(keys("a"))
	assert.Equal(t, "office", m.Input.Value())
	m, _ = m.Update(keys("-2"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.Equal(t, "office-2", dir.aliases["dev-1"])
	assert.Equal(t, "office-2", m.Device.Alias)
}

func TestDetailSendFailureShowsReason(t *testing.T) {
	m := NewDeviceDetailModel(NewSession(newFake(), time.Second), network.DeviceRecord{DeviceID: "gone"}, 100, 30)
	m, _ = m.Update(m.Session.SendCommand("gone", "ls")())
	assert.EqualError(t, m.Err, "send failed: Device not found")
}

func TestRenderEcho(t *testing.T) {
	assert.Equal(t, "No result yet for this device.", renderEcho(nil))

	out := renderEcho(&network.EchoRecord{Output: "hi\n", Timestamp: "2024-05-01 10:00:07"})
	assert.Contains(t, out, "Echo at 2024-05-01 10:00:07")
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "(none)")
}

func TestRootNavigation(t *testing.T) {
	dir := newFake()
	var model tea.Model = NewRootModel(NewSession(dir, time.Second))

	model, _ = model.Update(DeviceSelectedMsg{Device: dir.devices[0]})
	root := model.(RootModel)
	assert.Equal(t, stateDeviceDetail, root.State)

	model, _ = model.Update(BackToDashboardMsg{})
	assert.Equal(t, stateDashboard, model.(RootModel).State)

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, model.(RootModel).Quitting)
}
