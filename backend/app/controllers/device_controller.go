package controllers

import (
	"encoding/json"
	"net/http"

	"echo-relay/backend/app/services"
	"echo-relay/network"
)

// DeviceController serves the agent-facing /device/* endpoints.
type DeviceController struct{ Relay *services.RelayService }

func NewDeviceController(relay *services.RelayService) *DeviceController {
	return &DeviceController{Relay: relay}
}

func (c *DeviceController) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req network.DeviceRequest
	decodeBody(r, &req)
	alias, err := c.Relay.Heartbeat(r.Context(), req.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	network.WriteJSON(w, http.StatusOK, struct {
		network.StatusMessage
		network.HeartbeatResponse
	}{network.StatusMessage{Code: http.StatusOK, Msg: "heartbeat ok"}, network.HeartbeatResponse{Alias: alias}})
}

func (c *DeviceController) GetCommand(w http.ResponseWriter, r *http.Request) {
	var req network.DeviceRequest
	decodeBody(r, &req)
	cmd, err := c.Relay.NextCommand(r.Context(), req.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cmd == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	network.WriteJSON(w, http.StatusOK, struct {
		Code int `json:"code"`
		network.CommandRequest
	}{http.StatusOK, network.CommandRequest{Command: cmd.Command, Timestamp: cmd.Timestamp}})
}

func (c *DeviceController) UploadEcho(w http.ResponseWriter, r *http.Request) {
	var req network.UploadEchoRequest
	decodeBody(r, &req)
	if err := c.Relay.UploadEcho(r.Context(), req.DeviceID, req.Output, req.Error); err != nil {
		writeError(w, err)
		return
	}
	network.WriteMessage(w, http.StatusOK, "echo uploaded")
}

// decodeBody reads a JSON body into v. A missing or malformed body leaves v
// zero-valued, which the service then rejects as a missing field.
func decodeBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(v)
}
