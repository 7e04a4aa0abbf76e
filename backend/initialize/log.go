package initialize

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the backend's console logger writing to out.
func NewLogger(out io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	return zerolog.New(cw).With().Timestamp().Logger()
}
