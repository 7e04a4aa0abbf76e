package main

import (
	"net"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFailsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	code := run([]string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--host", "127.0.0.1",
		"--port", strconv.Itoa(port),
	})
	assert.Equal(t, 1, code)
}

func TestRunRejectsBadConfig(t *testing.T) {
	code := run([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--store", "mongo"})
	assert.Equal(t, 1, code)
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--no-such-flag"}))
}
