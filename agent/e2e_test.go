//go:build !windows

package main

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"echo-relay/agent/internal/coordinator"
	"echo-relay/agent/internal/executor"
	"echo-relay/agent/internal/loop"
	"echo-relay/backend/config"
	"echo-relay/backend/initialize"
	"echo-relay/cmd/console/directory"
	"echo-relay/network"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentRunsCommandFromConsole(t *testing.T) {
	app, err := initialize.Build(config.Config{Store: config.Store{Driver: "memory"}}, initialize.NewLogger(io.Discard))
	require.NoError(t, err)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lp := loop.New(
		coordinator.New(network.NewClient(srv.URL, 2*time.Second), "abc-123"),
		executor.New(5*time.Second, ""),
		loop.Options{Interval: 50 * time.Millisecond, Logger: zerolog.Nop()},
	)
	done := make(chan error, 1)
	go func() { done <- lp.Run(ctx) }()

	console := directory.New(network.NewClient(srv.URL, 2*time.Second))

	require.Eventually(t, func() bool {
		devices, err := console.ListDevices(ctx)
		return err == nil && len(devices) == 1 && devices[0].DeviceID == "abc-123"
	}, 5*time.Second, 20*time.Millisecond, "agent never registered")

	sent := time.Now().UTC()
	require.NoError(t, console.SendCommand(ctx, "abc-123", "echo hi"))

	// The condition runs on its own goroutine, so the result is handed over on
	// a channel instead of through shared variables.
	uploaded := make(chan *network.EchoRecord, 1)
	require.Eventually(t, func() bool {
		got, err := console.GetEcho(ctx, "abc-123")
		if err != nil || got == nil {
			return false
		}
		select {
		case uploaded <- got:
		default:
		}
		return true
	}, 5*time.Second, 20*time.Millisecond, "no echo uploaded")
	echo := <-uploaded

	assert.Equal(t, "hi\n", echo.Output)
	assert.Empty(t, echo.Error)
	ts, err := time.Parse(network.TimestampLayout, echo.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, sent, ts, 5*time.Second)

	assert.Equal(t, "abc-123", lp.State().Alias())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("agent loop did not stop")
	}
}
