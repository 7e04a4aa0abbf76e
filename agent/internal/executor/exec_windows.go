//go:build windows

package executor

import (
	"os/exec"
	"time"
)

func defaultShell() []string { return []string{"cmd", "/C"} }

func prepare(cmd *exec.Cmd) {
	cmd.WaitDelay = time.Second
}
