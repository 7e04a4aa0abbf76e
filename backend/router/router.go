package router

import (
	"net/http"

	"echo-relay/backend/app/controllers"
	"echo-relay/network"
)

func NewRouter(deviceCtrl *controllers.DeviceController, controlCtrl *controllers.ControlController) http.Handler {
	mux := http.NewServeMux()

	// agent
	mux.HandleFunc("POST "+network.PathHeartbeat, deviceCtrl.Heartbeat)
	mux.HandleFunc("POST "+network.PathGetCommand, deviceCtrl.GetCommand)
	mux.HandleFunc("POST "+network.PathUploadEcho, deviceCtrl.UploadEcho)

	// operator console
	mux.HandleFunc("GET "+network.PathGetDevices, controlCtrl.GetDevices)
	mux.HandleFunc("POST "+network.PathSetAlias, controlCtrl.SetAlias)
	mux.HandleFunc("POST "+network.PathSendCommand, controlCtrl.SendCommand)
	mux.HandleFunc("GET "+network.PathGetEcho, controlCtrl.GetEcho)

	// everything else, including known paths with the wrong method
	mux.HandleFunc("/", controllers.NotFound)
	return mux
}
