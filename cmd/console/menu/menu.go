package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"echo-relay/network"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Directory is what the menu needs from the coordinator.
type Directory interface {
	ListDevices(ctx context.Context) ([]network.DeviceRecord, error)
	SetAlias(ctx context.Context, deviceID, alias string) error
	SendCommand(ctx context.Context, deviceID, command string) error
	GetEcho(ctx context.Context, deviceID string) (*network.EchoRecord, error)
}

type Options struct {
	Server       string
	PollInterval time.Duration
}

// Menu is the line-oriented operator console. It is synchronous: every action
// finishes, successfully or with a printed reason, before the menu is shown again.
type Menu struct {
	dir  Directory
	in   *bufio.Reader
	out  io.Writer
	opts Options
}

func New(dir Directory, in io.Reader, out io.Writer, opts Options) *Menu {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return &Menu{dir: dir, in: bufio.NewReader(in), out: out, opts: opts}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(1)
	rule        = strings.Repeat("=", 50)
	thinRule    = strings.Repeat("-", 50)
)

// Run shows the menu until the operator picks 0 or input ends.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "=== Remote console ===")
	if m.opts.Server != "" {
		fmt.Fprintf(m.out, "Coordinator: %s\n", m.opts.Server)
	}
	for {
		m.printMenu()
		choice, err := m.prompt("\nChoose an option: ")
		if err != nil {
			return m.inputClosed(err)
		}
		switch choice {
		case "0":
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		case "1":
			m.List(ctx)
		case "2":
			err = m.Rename(ctx)
		case "3":
			err = m.Dispatch(ctx)
		case "4":
			err = m.FetchEcho(ctx)
		default:
			fmt.Fprintln(m.out, "Invalid choice, try again.")
		}
		if err != nil {
			return m.inputClosed(err)
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "\n"+rule)
	fmt.Fprintln(m.out, "Remote console")
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "1. List devices")
	fmt.Fprintln(m.out, "2. Rename a device")
	fmt.Fprintln(m.out, "3. Send a command to a device")
	fmt.Fprintln(m.out, "4. Show a device's latest echo")
	fmt.Fprintln(m.out, "0. Exit")
	fmt.Fprintln(m.out, rule)
}

func (m *Menu) inputClosed(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(m.out, "\nInput closed, exiting.")
		return nil
	}
	return err
}

// List prints the device table and returns the devices shown. It returns nil
// when the directory could not be fetched or is empty.
func (m *Menu) List(ctx context.Context) []network.DeviceRecord {
	devices, err := m.dir.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list devices: %s\n", reason(err))
		return nil
	}
	if len(devices) == 0 {
		fmt.Fprintln(m.out, "No devices online.")
		return nil
	}
	fmt.Fprintf(m.out, "\nDevices (%d):\n", len(devices))
	fmt.Fprintln(m.out, renderTable(devices))
	return devices
}

func renderTable(devices []network.DeviceRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "DEVICE ID", "ALIAS", "LAST ONLINE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, d := range devices {
		t.Row(strconv.Itoa(i+1), d.DeviceID, d.Alias, d.LastOnline)
	}
	return t.Render()
}

func (m *Menu) Rename(ctx context.Context) error {
	dev, ok, err := m.selectDevice(ctx, "rename")
	if err != nil || !ok {
		return err
	}
	alias, err := m.prompt(fmt.Sprintf("Current alias is %q, enter the new alias: ", dev.Alias))
	if err != nil {
		return err
	}
	if alias == "" {
		fmt.Fprintln(m.out, "Alias cannot be empty.")
		return nil
	}
	if err := m.dir.SetAlias(ctx, dev.DeviceID, alias); err != nil {
		fmt.Fprintf(m.out, "Rename failed: %s\n", reason(err))
		return nil
	}
	fmt.Fprintf(m.out, "Alias updated: %s\n", alias)
	return nil
}

func (m *Menu) Dispatch(ctx context.Context) error {
	dev, ok, err := m.selectDevice(ctx, "send a command to")
	if err != nil || !ok {
		return err
	}
	command, err := m.prompt(fmt.Sprintf("Enter the command for %q: ", dev.Alias))
	if err != nil {
		return err
	}
	if command == "" {
		fmt.Fprintln(m.out, "Command cannot be empty.")
		return nil
	}
	if err := m.dir.SendCommand(ctx, dev.DeviceID, command); err != nil {
		fmt.Fprintf(m.out, "Send failed: %s\n", reason(err))
		return nil
	}
	fmt.Fprintf(m.out, "Command accepted. The agent checks for work every %s; use option 4 to fetch the result.\n", m.opts.PollInterval)
	return nil
}

func (m *Menu) FetchEcho(ctx context.Context) error {
	dev, ok, err := m.selectDevice(ctx, "show the echo of")
	if err != nil || !ok {
		return err
	}
	fmt.Fprintf(m.out, "\nFetching the latest echo of %q...\n", dev.Alias)
	echo, err := m.dir.GetEcho(ctx, dev.DeviceID)
	if err != nil {
		fmt.Fprintf(m.out, "Fetching echo failed: %s\n", reason(err))
		return nil
	}
	if echo == nil {
		fmt.Fprintln(m.out, "No result yet for this device.")
		return nil
	}
	fmt.Fprintf(m.out, "\nEcho (%s):\n", echo.Timestamp)
	fmt.Fprintln(m.out, thinRule)
	fmt.Fprint(m.out, "Output:\n"+block(echo.Output))
	fmt.Fprintln(m.out, thinRule)
	fmt.Fprint(m.out, "Error:\n"+block(echo.Error))
	fmt.Fprintln(m.out, thinRule)
	return nil
}

// selectDevice lists the directory and asks for a 1-based index. ok is false
// when there is nothing to pick or the input was rejected; no request about
// the device is made in that case.
func (m *Menu) selectDevice(ctx context.Context, verb string) (network.DeviceRecord, bool, error) {
	devices := m.List(ctx)
	if len(devices) == 0 {
		return network.DeviceRecord{}, false, nil
	}
	raw, err := m.prompt(fmt.Sprintf("\nEnter the number of the device to %s: ", verb))
	if err != nil {
		return network.DeviceRecord{}, false, err
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Device number must be an integer.")
		return network.DeviceRecord{}, false, nil
	}
	if idx < 1 || idx > len(devices) {
		fmt.Fprintf(m.out, "Invalid device number, choose between 1 and %d.\n", len(devices))
		return network.DeviceRecord{}, false, nil
	}
	return devices[idx-1], true, nil
}

// prompt writes label and reads one trimmed line. A final line without a
// newline is still returned; io.EOF is reported only once nothing is left.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func block(s string) string {
	if s == "" {
		return "(none)\n"
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

func reason(err error) string {
	var se *network.StatusError
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}
