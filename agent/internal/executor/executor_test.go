//go:build !windows

package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStdoutOnly(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "echo hi")
	assert.Equal(t, "hi\n", res.Output)
	assert.Empty(t, res.Error)
}

func TestStderrOnly(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "echo oops 1>&2")
	assert.Empty(t, res.Output)
	assert.Equal(t, "oops\n", res.Error)
}

func TestBothStreams(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "echo out; echo err 1>&2")
	assert.Equal(t, "out\n", res.Output)
	assert.Equal(t, "err\n", res.Error)
}

func TestCommandNotFoundIsReported(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "definitely-not-a-command-xyz")
	assert.Empty(t, res.Output)
	assert.NotEmpty(t, res.Error)
}

func TestNonZeroExitWithoutStderr(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "exit 3")
	assert.Equal(t, "exit status 3", res.Error)
}

func TestMissingShellIsReported(t *testing.T) {
	res := New(5*time.Second, "/no/such/shell -c").Execute(context.Background(), "echo hi")
	assert.Empty(t, res.Output)
	assert.Contains(t, res.Error, "/no/such/shell")
}

func TestTimeoutReturnsWithinBound(t *testing.T) {
	e := New(500*time.Millisecond, "")
	start := time.Now()
	res := e.Execute(context.Background(), "echo partial; sleep 10")
	elapsed := time.Since(start)

	assert.Empty(t, res.Output)
	assert.Equal(t, TimeoutMessage, res.Error)
	assert.Less(t, elapsed, e.Timeout()+2*time.Second)
}

func TestTimeoutKillsBackgroundChildren(t *testing.T) {
	e := New(300*time.Millisecond, "")
	start := time.Now()
	res := e.Execute(context.Background(), "sleep 10 & sleep 10; wait")

	assert.Equal(t, TimeoutMessage, res.Error)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()
	res := New(10*time.Second, "").Execute(ctx, "sleep 5")
	assert.Equal(t, CancelledMessage, res.Error)
}

func TestCustomShell(t *testing.T) {
	res := New(5*time.Second, "/bin/sh -c").Execute(context.Background(), "printf '%s' \"$0\"")
	assert.True(t, strings.HasSuffix(res.Output, "sh"), res.Output)
}

func TestDetachedChildDoesNotTurnSuccessIntoError(t *testing.T) {
	start := time.Now()
	res := New(5*time.Second, "").Execute(context.Background(), "echo started; sleep 3 &")

	assert.Equal(t, "started\n", res.Output)
	assert.Empty(t, res.Error)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDetachedChildKeepsRealExitStatus(t *testing.T) {
	res := New(5*time.Second, "").Execute(context.Background(), "sleep 3 & exit 4")
	assert.Equal(t, "exit status 4", res.Error)
}
