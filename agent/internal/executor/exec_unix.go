//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func defaultShell() []string { return []string{"/bin/sh", "-c"} }

// prepare puts the shell in its own process group so a timeout kills every
// process it spawned, not just the shell.
func prepare(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = time.Second
}
