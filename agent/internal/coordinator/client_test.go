package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"echo-relay/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(network.NewClient(srv.URL, time.Second), "abc-123")
}

func TestHeartbeatReturnsAlias(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, network.PathHeartbeat, r.URL.Path)
		var body network.DeviceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc-123", body.DeviceID)
		network.WriteJSON(w, http.StatusOK, map[string]any{"code": 200, "msg": "ok", "alias": "lab-01"})
	})
	alias, err := c.Heartbeat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lab-01", alias)
}

func TestHeartbeatFailureCarriesMessage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		network.WriteMessage(w, http.StatusBadRequest, "device_id is required")
	})
	_, err := c.Heartbeat(context.Background())
	require.Error(t, err)
	assert.True(t, network.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "device_id is required")
}

func TestPollOutcomes(t *testing.T) {
	t.Run("command", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, network.PathGetCommand, r.URL.Path)
			network.WriteJSON(w, http.StatusOK, network.CommandRequest{Command: "echo hi", Timestamp: "T1"})
		})
		req, err := c.PollCommand(context.Background())
		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, network.CommandRequest{Command: "echo hi", Timestamp: "T1"}, *req)
	})
	t.Run("no content", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		req, err := c.PollCommand(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, req)
	})
	t.Run("server error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			network.WriteMessage(w, http.StatusInternalServerError, "boom")
		})
		req, err := c.PollCommand(context.Background())
		assert.Error(t, err)
		assert.Nil(t, req)
	})
}

func TestUploadEchoBody(t *testing.T) {
	var got network.UploadEchoRequest
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, network.PathUploadEcho, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		network.WriteMessage(w, http.StatusOK, "uploaded")
	})
	require.NoError(t, c.UploadEcho(context.Background(), network.ExecutionResult{Output: "hi\n"}))
	assert.Equal(t, network.UploadEchoRequest{DeviceID: "abc-123", Output: "hi\n", Error: ""}, got)
}
