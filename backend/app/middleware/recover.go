package middleware

import (
	"net/http"
	"runtime/debug"

	"echo-relay/network"

	"github.com/rs/zerolog"
)

// Recover turns a handler panic into a 500 {code, msg} response.
func Recover(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				log.Error().Interface("panic", v).Str("path", r.URL.Path).Str("stack", string(debug.Stack())).Msg("handler panicked")
				network.WriteMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
