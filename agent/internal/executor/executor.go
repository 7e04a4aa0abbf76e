package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"echo-relay/network"
)

const (
	// DefaultTimeout is the wall-clock bound for one command.
	DefaultTimeout = 30 * time.Second

	TimeoutMessage   = "command execution timed out"
	CancelledMessage = "command execution cancelled"
)

// Executor runs operator-supplied command lines through the host shell.
// It performs no validation: whatever the coordinator hands over is run with
// the privileges of the agent process.
type Executor struct {
	timeout time.Duration
	shell   []string
}

// New returns an executor bounded by timeout. shell is a command prefix such as
// "/bin/bash -c"; empty selects the platform default.
func New(timeout time.Duration, shell string) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	argv := strings.Fields(shell)
	if len(argv) == 0 {
		argv = defaultShell()
	}
	return &Executor{timeout: timeout, shell: argv}
}

func (e *Executor) Timeout() time.Duration { return e.timeout }

// Execute runs command and captures its output. It never returns an error:
// timeouts, spawn failures and non-zero exits are all described in Error.
func (e *Executor) Execute(ctx context.Context, command string) network.ExecutionResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string{}, e.shell[1:]...), command)
	cmd := exec.CommandContext(ctx, e.shell[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	prepare(cmd)

	err := cmd.Run()
	// A background child still holding the pipes makes Run report ErrWaitDelay
	// even though the shell itself exited cleanly.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		err = nil
	}
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return network.ExecutionResult{Error: TimeoutMessage}
		case errors.Is(ctx.Err(), context.Canceled):
			return network.ExecutionResult{Output: stdout.String(), Error: CancelledMessage}
		}
	}

	res := network.ExecutionResult{Output: stdout.String(), Error: stderr.String()}
	if err != nil && res.Error == "" {
		res.Error = err.Error()
	}
	return res
}
