package network

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v with the given status. 204 responses carry no body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {code, msg} envelope.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, StatusMessage{Code: status, Msg: msg})
}
