package services

import (
	"context"
	"testing"
	"time"

	"echo-relay/backend/app/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*RelayService, *time.Time) {
	t.Helper()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewRelayService(repo.NewMemoryStore()).WithClock(func() time.Time { return now })
	return svc, &now
}

func TestHeartbeatRegistersWithIDAsAlias(t *testing.T) {
	svc, now := newService(t)
	ctx := context.Background()

	alias, err := svc.Heartbeat(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", alias)

	*now = now.Add(7 * time.Second)
	_, err = svc.Heartbeat(ctx, "abc-123")
	require.NoError(t, err)

	devices, err := svc.Devices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "2024-05-01 10:00:07", devices[0].LastOnline)
}

func TestTimestampsAreUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	svc := NewRelayService(repo.NewMemoryStore()).WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 18, 0, 0, 0, loc)
	})
	_, err := svc.Heartbeat(context.Background(), "dev")
	require.NoError(t, err)
	devices, _ := svc.Devices(context.Background())
	assert.Equal(t, "2024-05-01 10:00:00", devices[0].LastOnline)
}

func TestValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Heartbeat(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.NextCommand(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, svc.UploadEcho(ctx, "", "out", ""), ErrInvalidRequest)
	assert.ErrorIs(t, svc.SetAlias(ctx, "dev", ""), ErrInvalidRequest)
	assert.ErrorIs(t, svc.SendCommand(ctx, "", "ls"), ErrInvalidRequest)
	_, err = svc.LatestEcho(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUnknownDevice(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	assert.ErrorIs(t, svc.SetAlias(ctx, "ghost", "x"), repo.ErrDeviceNotFound)
	assert.ErrorIs(t, svc.SendCommand(ctx, "ghost", "ls"), repo.ErrDeviceNotFound)
}

func TestCommandRoundTrip(t *testing.T) {
	svc, now := newService(t)
	ctx := context.Background()
	_, err := svc.Heartbeat(ctx, "dev")
	require.NoError(t, err)

	cmd, err := svc.NextCommand(ctx, "dev")
	require.NoError(t, err)
	assert.Nil(t, cmd)

	require.NoError(t, svc.SendCommand(ctx, "dev", "echo hi"))
	cmd, err = svc.NextCommand(ctx, "dev")
	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, "echo hi", cmd.Command)
	assert.Equal(t, "2024-05-01 10:00:00", cmd.Timestamp)

	*now = now.Add(2 * time.Second)
	require.NoError(t, svc.UploadEcho(ctx, "dev", "hi\n", ""))

	cmd, err = svc.NextCommand(ctx, "dev")
	require.NoError(t, err)
	assert.Nil(t, cmd)

	echo, err := svc.LatestEcho(ctx, "dev")
	require.NoError(t, err)
	require.NotNil(t, echo)
	assert.Equal(t, "hi\n", echo.Output)
	assert.Equal(t, "2024-05-01 10:00:02", echo.Timestamp)
}
