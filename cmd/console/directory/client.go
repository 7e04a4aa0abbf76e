package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"echo-relay/network"
)

// Client is the console side of the coordinator API.
type Client struct {
	api *network.Client
}

func New(api *network.Client) *Client { return &Client{api: api} }

// ListDevices returns every known device. An empty slice is a normal answer;
// any status other than 200 is an error and no partial list is returned.
func (c *Client) ListDevices(ctx context.Context) ([]network.DeviceRecord, error) {
	var out network.DeviceList
	status, err := c.api.GetJSON(ctx, network.PathGetDevices, nil, &out)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if err := expectOK(status); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if out.Devices == nil {
		return []network.DeviceRecord{}, nil
	}
	return out.Devices, nil
}

func (c *Client) SetAlias(ctx context.Context, deviceID, alias string) error {
	status, err := c.api.PostJSON(ctx, network.PathSetAlias, network.SetAliasRequest{DeviceID: deviceID, NewAlias: alias}, nil)
	if err == nil {
		err = expectOK(status)
	}
	if err != nil {
		return fmt.Errorf("set alias: %w", err)
	}
	return nil
}

// SendCommand queues command for deviceID. Success only means the coordinator
// accepted it; the agent picks it up on its next poll.
func (c *Client) SendCommand(ctx context.Context, deviceID, command string) error {
	status, err := c.api.PostJSON(ctx, network.PathSendCommand, network.SendCommandRequest{DeviceID: deviceID, Command: command}, nil)
	if err == nil {
		err = expectOK(status)
	}
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return nil
}

// GetEcho fetches the latest result for deviceID, or nil when there is none yet.
func (c *Client) GetEcho(ctx context.Context, deviceID string) (*network.EchoRecord, error) {
	var out network.EchoRecord
	status, err := c.api.GetJSON(ctx, network.PathGetEcho, url.Values{"device_id": {deviceID}}, &out)
	if err != nil {
		return nil, fmt.Errorf("get echo: %w", err)
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &out, nil
}

func expectOK(status int) error {
	if status == http.StatusOK {
		return nil
	}
	return &network.StatusError{Status: status, Msg: http.StatusText(status)}
}
