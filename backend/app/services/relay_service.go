package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"echo-relay/backend/app/models"
	"echo-relay/backend/app/repo"
	"echo-relay/network"
)

// ErrInvalidRequest wraps every validation failure; its message is meant for
// the caller.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidRequest, msg) }

// RelayService holds the coordinator behavior on top of a repo.Store.
type RelayService struct {
	store repo.Store
	now   func() time.Time
}

func NewRelayService(store repo.Store) *RelayService {
	return &RelayService{store: store, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *RelayService) WithClock(now func() time.Time) *RelayService {
	s.now = now
	return s
}

func (s *RelayService) timestamp() string {
	return s.now().UTC().Format(network.TimestampLayout)
}

// Heartbeat registers or refreshes a device and returns its alias.
func (s *RelayService) Heartbeat(ctx context.Context, deviceID string) (string, error) {
	if strings.TrimSpace(deviceID) == "" {
		return "", invalid("device_id is required")
	}
	d, err := s.store.TouchDevice(ctx, deviceID, s.timestamp())
	if err != nil {
		return "", err
	}
	return d.Alias, nil
}

// NextCommand returns the device's pending command, or nil when there is none.
// It does not consume the command; only an echo upload does.
func (s *RelayService) NextCommand(ctx context.Context, deviceID string) (*models.Command, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, invalid("device_id is required")
	}
	return s.store.PendingCommand(ctx, deviceID)
}

func (s *RelayService) UploadEcho(ctx context.Context, deviceID, output, errText string) error {
	if strings.TrimSpace(deviceID) == "" {
		return invalid("device_id is required")
	}
	return s.store.SaveEcho(ctx, models.Echo{
		DeviceID:  deviceID,
		Output:    output,
		Error:     errText,
		Timestamp: s.timestamp(),
	})
}

func (s *RelayService) Devices(ctx context.Context) ([]models.Device, error) {
	return s.store.ListDevices(ctx)
}

func (s *RelayService) SetAlias(ctx context.Context, deviceID, alias string) error {
	if strings.TrimSpace(deviceID) == "" || strings.TrimSpace(alias) == "" {
		return invalid("device_id and new_alias are required")
	}
	return s.store.SetAlias(ctx, deviceID, alias)
}

// SendCommand replaces any command still waiting for the device.
func (s *RelayService) SendCommand(ctx context.Context, deviceID, command string) error {
	if strings.TrimSpace(deviceID) == "" || strings.TrimSpace(command) == "" {
		return invalid("device_id and command are required")
	}
	return s.store.PutCommand(ctx, models.Command{
		DeviceID:  deviceID,
		Command:   command,
		Status:    models.CommandPending,
		Timestamp: s.timestamp(),
	})
}

// LatestEcho returns nil when the device has not uploaded anything yet.
func (s *RelayService) LatestEcho(ctx context.Context, deviceID string) (*models.Echo, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, invalid("device_id is required")
	}
	return s.store.Echo(ctx, deviceID)
}
