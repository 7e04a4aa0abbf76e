package coordinator

import (
	"context"
	"fmt"
	"net/http"

	"echo-relay/network"
)

// Client speaks the device side of the coordinator API for one device.
type Client struct {
	api      *network.Client
	deviceID string
}

func New(api *network.Client, deviceID string) *Client {
	return &Client{api: api, deviceID: deviceID}
}

func (c *Client) DeviceID() string { return c.deviceID }

// Heartbeat reports liveness and returns the alias the coordinator holds for this device.
func (c *Client) Heartbeat(ctx context.Context) (string, error) {
	var out network.HeartbeatResponse
	status, err := c.api.PostJSON(ctx, network.PathHeartbeat, network.DeviceRequest{DeviceID: c.deviceID}, &out)
	if err != nil {
		return "", fmt.Errorf("heartbeat: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("heartbeat: %w", &network.StatusError{Status: status, Msg: http.StatusText(status)})
	}
	return out.Alias, nil
}

// PollCommand asks for pending work. It returns nil, nil when the coordinator
// has nothing queued (204).
func (c *Client) PollCommand(ctx context.Context) (*network.CommandRequest, error) {
	var out network.CommandRequest
	status, err := c.api.PostJSON(ctx, network.PathGetCommand, network.DeviceRequest{DeviceID: c.deviceID}, &out)
	if err != nil {
		return nil, fmt.Errorf("get command: %w", err)
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &out, nil
}

// UploadEcho sends the result of the last command.
func (c *Client) UploadEcho(ctx context.Context, res network.ExecutionResult) error {
	body := network.UploadEchoRequest{DeviceID: c.deviceID, Output: res.Output, Error: res.Error}
	status, err := c.api.PostJSON(ctx, network.PathUploadEcho, body, nil)
	if err != nil {
		return fmt.Errorf("upload echo: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("upload echo: %w", &network.StatusError{Status: status, Msg: http.StatusText(status)})
	}
	return nil
}
