package repo

import (
	"context"
	"sync"

	"echo-relay/backend/app/models"
)

// MemoryStore keeps everything in process memory; it is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	devices  map[string]*models.Device
	commands map[string]models.Command
	echoes   map[string]models.Echo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:  make(map[string]*models.Device),
		commands: make(map[string]models.Command),
		echoes:   make(map[string]models.Echo),
	}
}

func (s *MemoryStore) TouchDevice(_ context.Context, deviceID, now string) (models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		d = &models.Device{ID: uint(len(s.order) + 1), DeviceID: deviceID, Alias: deviceID}
		s.devices[deviceID] = d
		s.order = append(s.order, deviceID)
	}
	d.LastOnline = now
	return *d, nil
}

func (s *MemoryStore) ListDevices(context.Context) ([]models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Device, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.devices[id])
	}
	return out, nil
}

func (s *MemoryStore) SetAlias(_ context.Context, deviceID, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return ErrDeviceNotFound
	}
	d.Alias = alias
	return nil
}

func (s *MemoryStore) PutCommand(_ context.Context, cmd models.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[cmd.DeviceID]; !ok {
		return ErrDeviceNotFound
	}
	s.commands[cmd.DeviceID] = cmd
	return nil
}

func (s *MemoryStore) PendingCommand(_ context.Context, deviceID string) (*models.Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd, ok := s.commands[deviceID]
	if !ok || !cmd.Pending() {
		return nil, nil
	}
	return &cmd, nil
}

func (s *MemoryStore) SaveEcho(_ context.Context, echo models.Echo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.echoes[echo.DeviceID] = echo
	if cmd, ok := s.commands[echo.DeviceID]; ok {
		cmd.Status = models.CommandExecuted
		s.commands[echo.DeviceID] = cmd
	}
	return nil
}

func (s *MemoryStore) Echo(_ context.Context, deviceID string) (*models.Echo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	echo, ok := s.echoes[deviceID]
	if !ok {
		return nil, nil
	}
	return &echo, nil
}

func (s *MemoryStore) Close() error { return nil }
