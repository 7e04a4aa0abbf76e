package state

import (
	"sync"
	"sync/atomic"

	"echo-relay/network"
)

// State is what the agent remembers between cycles: the alias last echoed by
// the coordinator and the most recent delivery with its result.
type State struct {
	alias atomic.Value // string

	mu        sync.Mutex
	lastKey   string
	lastValid bool
	lastRes   network.ExecutionResult
}

func New() *State { return &State{} }

func (s *State) SetAlias(a string) { s.alias.Store(a) }
func (s *State) Alias() string {
	if v := s.alias.Load(); v != nil {
		if a, ok := v.(string); ok {
			return a
		}
	}
	return ""
}

// Seen returns the stored result if req is a redelivery of the last command.
// Deliveries without a timestamp are never treated as duplicates.
func (s *State) Seen(req network.CommandRequest) (network.ExecutionResult, bool) {
	key, ok := deliveryKey(req)
	if !ok {
		return network.ExecutionResult{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastValid || s.lastKey != key {
		return network.ExecutionResult{}, false
	}
	return s.lastRes, true
}

// Record remembers res as the outcome of req.
func (s *State) Record(req network.CommandRequest, res network.ExecutionResult) {
	key, ok := deliveryKey(req)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKey, s.lastValid, s.lastRes = key, ok, res
}

func deliveryKey(req network.CommandRequest) (string, bool) {
	if req.Timestamp == "" {
		return "", false
	}
	return req.Timestamp + "\x00" + req.Command, true
}
