package loop

import (
	"context"
	"sync/atomic"
	"time"

	"echo-relay/agent/internal/state"
	"echo-relay/network"

	"github.com/rs/zerolog"
)

// DefaultInterval is the pause between two cycles.
const DefaultInterval = 5 * time.Second

// Coordinator is the remote side of the agent.
type Coordinator interface {
	Heartbeat(ctx context.Context) (string, error)
	PollCommand(ctx context.Context) (*network.CommandRequest, error)
	UploadEcho(ctx context.Context, res network.ExecutionResult) error
}

// Runner executes one command line.
type Runner interface {
	Execute(ctx context.Context, command string) network.ExecutionResult
}

type Options struct {
	Interval time.Duration
	Logger   zerolog.Logger
	State    *state.State
}

// Loop drives heartbeat -> poll -> execute -> upload -> sleep until stopped.
// Remote failures are logged and never end the loop.
type Loop struct {
	coord    Coordinator
	runner   Runner
	log      zerolog.Logger
	state    *state.State
	interval atomic.Int64
}

func New(coord Coordinator, runner Runner, opts Options) *Loop {
	l := &Loop{coord: coord, runner: runner, log: opts.Logger, state: opts.State}
	if l.state == nil {
		l.state = state.New()
	}
	l.SetInterval(opts.Interval)
	return l
}

// SetInterval changes the sleep used from the next cycle on. Non-positive
// values fall back to DefaultInterval.
func (l *Loop) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	l.interval.Store(int64(d))
}

func (l *Loop) Interval() time.Duration { return time.Duration(l.interval.Load()) }

func (l *Loop) State() *state.State { return l.state }

// Run cycles until ctx is cancelled and then returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Cycle(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		t := time.NewTimer(l.Interval())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Cycle runs one heartbeat/poll/execute/upload pass without sleeping.
// The stop signal is checked between phases.
func (l *Loop) Cycle(ctx context.Context) {
	l.heartbeat(ctx)
	if ctx.Err() != nil {
		return
	}

	req := l.poll(ctx)
	if req == nil || ctx.Err() != nil {
		return
	}

	res, dup := l.state.Seen(*req)
	if dup {
		l.log.Warn().Str("command", req.Command).Str("timestamp", req.Timestamp).
			Msg("command redelivered, re-sending previous result")
	} else {
		l.log.Info().Str("command", req.Command).Str("timestamp", req.Timestamp).Msg("command received")
		res = l.runner.Execute(ctx, req.Command)
		l.state.Record(*req, res)
		l.log.Info().Int("output_bytes", len(res.Output)).Str("error", summary(res.Error)).Msg("command finished")
	}
	if ctx.Err() != nil {
		return
	}

	if err := l.coord.UploadEcho(ctx, res); err != nil {
		l.log.Warn().Err(err).Msg("echo upload failed, result dropped")
		return
	}
	l.log.Info().Msg("echo uploaded")
}

func (l *Loop) heartbeat(ctx context.Context) {
	alias, err := l.coord.Heartbeat(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("heartbeat failed")
		return
	}
	l.state.SetAlias(alias)
	l.log.Info().Str("alias", alias).Msg("heartbeat ok")
}

// poll returns nil for every outcome other than a usable command. A failed
// poll is deliberately indistinguishable from "no work" for the caller.
func (l *Loop) poll(ctx context.Context) *network.CommandRequest {
	req, err := l.coord.PollCommand(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("get command failed")
		return nil
	}
	if req == nil {
		return nil
	}
	if req.Command == "" {
		l.log.Warn().Str("timestamp", req.Timestamp).Msg("ignoring empty command")
		return nil
	}
	return req
}

func summary(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
