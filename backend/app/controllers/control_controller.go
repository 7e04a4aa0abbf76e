package controllers

import (
	"errors"
	"net/http"

	"echo-relay/backend/app/repo"
	"echo-relay/backend/app/services"
	"echo-relay/network"
)

// ControlController serves the operator-facing /control/* endpoints.
type ControlController struct{ Relay *services.RelayService }

func NewControlController(relay *services.RelayService) *ControlController {
	return &ControlController{Relay: relay}
}

func (c *ControlController) GetDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := c.Relay.Devices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := network.DeviceList{Devices: make([]network.DeviceRecord, 0, len(devices))}
	for _, d := range devices {
		out.Devices = append(out.Devices, network.DeviceRecord{DeviceID: d.DeviceID, Alias: d.Alias, LastOnline: d.LastOnline})
	}
	network.WriteJSON(w, http.StatusOK, struct {
		Code int `json:"code"`
		network.DeviceList
	}{http.StatusOK, out})
}

func (c *ControlController) SetAlias(w http.ResponseWriter, r *http.Request) {
	var req network.SetAliasRequest
	decodeBody(r, &req)
	if err := c.Relay.SetAlias(r.Context(), req.DeviceID, req.NewAlias); err != nil {
		writeError(w, err)
		return
	}
	network.WriteJSON(w, http.StatusOK, struct {
		network.StatusMessage
		NewAlias string `json:"new_alias"`
	}{network.StatusMessage{Code: http.StatusOK, Msg: "alias updated"}, req.NewAlias})
}

func (c *ControlController) SendCommand(w http.ResponseWriter, r *http.Request) {
	var req network.SendCommandRequest
	decodeBody(r, &req)
	if err := c.Relay.SendCommand(r.Context(), req.DeviceID, req.Command); err != nil {
		writeError(w, err)
		return
	}
	network.WriteMessage(w, http.StatusOK, "command queued")
}

func (c *ControlController) GetEcho(w http.ResponseWriter, r *http.Request) {
	echo, err := c.Relay.LatestEcho(r.Context(), r.URL.Query().Get("device_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if echo == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	network.WriteJSON(w, http.StatusOK, struct {
		Code int `json:"code"`
		network.EchoRecord
	}{http.StatusOK, network.EchoRecord{Output: echo.Output, Error: echo.Error, Timestamp: echo.Timestamp}})
}

// NotFound answers every unmatched route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	network.WriteMessage(w, http.StatusNotFound, "endpoint not found")
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		network.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrDeviceNotFound):
		network.WriteMessage(w, http.StatusNotFound, "Device not found")
	default:
		network.WriteMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
