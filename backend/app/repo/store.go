package repo

import (
	"context"
	"errors"

	"echo-relay/backend/app/models"
)

var ErrDeviceNotFound = errors.New("device not found")

// Store persists devices, their command slot and their latest echo.
// Lookups that find nothing return (nil, nil).
type Store interface {
	// TouchDevice registers deviceID (alias = deviceID) if unknown and sets
	// its last-online time.
	TouchDevice(ctx context.Context, deviceID, now string) (models.Device, error)
	// ListDevices returns every device in registration order.
	ListDevices(ctx context.Context) ([]models.Device, error)
	SetAlias(ctx context.Context, deviceID, alias string) error
	// PutCommand overwrites the device's command slot. ErrDeviceNotFound if
	// the device never sent a heartbeat.
	PutCommand(ctx context.Context, cmd models.Command) error
	PendingCommand(ctx context.Context, deviceID string) (*models.Command, error)
	// SaveEcho stores the echo and marks the device's command executed.
	SaveEcho(ctx context.Context, echo models.Echo) error
	Echo(ctx context.Context, deviceID string) (*models.Echo, error)
	Close() error
}
