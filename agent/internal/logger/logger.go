package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide agent logger. It writes timestamped console lines to
// stdout until Init redirects it.
var L = newLogger(os.Stdout, false)

// Init sends log output to a rotating file at path, or keeps stdout when path is empty.
func Init(path string) error {
	if path == "" {
		L = newLogger(os.Stdout, false)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir log dir: %w", err)
	}
	L = newLogger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}, true)
	return nil
}

func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: noColor}
	return zerolog.New(cw).With().Timestamp().Logger()
}

func Info(v ...interface{})             { L.Info().Msg(fmt.Sprint(v...)) }
func Error(v ...interface{})            { L.Error().Msg(fmt.Sprint(v...)) }
func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Warnf(f string, v ...interface{})  { L.Warn().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }
