package repo

import (
	"context"
	"fmt"

	"echo-relay/backend/app/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps coordinator state in redis hashes under a key prefix:
//
//	<prefix>:devices          sorted set of device ids, scored by registration order
//	<prefix>:device:<id>      hash alias, last_online
//	<prefix>:command:<id>     hash command, status, timestamp
//	<prefix>:echo:<id>        hash output, error, timestamp
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "echorelay"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *RedisStore) TouchDevice(ctx context.Context, deviceID, now string) (models.Device, error) {
	dk := s.key("device", deviceID)
	created, err := s.rdb.HSetNX(ctx, dk, "alias", deviceID).Result()
	if err != nil {
		return models.Device{}, fmt.Errorf("register device: %w", err)
	}
	if created {
		seq, err := s.rdb.Incr(ctx, s.key("device_seq")).Result()
		if err != nil {
			return models.Device{}, fmt.Errorf("register device: %w", err)
		}
		if err := s.rdb.ZAddNX(ctx, s.key("devices"), redis.Z{Score: float64(seq), Member: deviceID}).Err(); err != nil {
			return models.Device{}, fmt.Errorf("register device: %w", err)
		}
	}
	if err := s.rdb.HSet(ctx, dk, "last_online", now).Err(); err != nil {
		return models.Device{}, fmt.Errorf("touch device: %w", err)
	}
	alias, err := s.rdb.HGet(ctx, dk, "alias").Result()
	if err != nil {
		return models.Device{}, fmt.Errorf("read device: %w", err)
	}
	return models.Device{DeviceID: deviceID, Alias: alias, LastOnline: now}, nil
}

func (s *RedisStore) ListDevices(ctx context.Context) ([]models.Device, error) {
	ids, err := s.rdb.ZRange(ctx, s.key("devices"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key("device", id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("list devices: %w", err)
		}
	}
	devices := make([]models.Device, 0, len(ids))
	for i, id := range ids {
		fields := cmds[i].Val()
		devices = append(devices, models.Device{
			ID:         uint(i + 1),
			DeviceID:   id,
			Alias:      fields["alias"],
			LastOnline: fields["last_online"],
		})
	}
	return devices, nil
}

func (s *RedisStore) SetAlias(ctx context.Context, deviceID, alias string) error {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return err
	}
	return s.rdb.HSet(ctx, s.key("device", deviceID), "alias", alias).Err()
}

func (s *RedisStore) PutCommand(ctx context.Context, cmd models.Command) error {
	if err := s.requireDevice(ctx, cmd.DeviceID); err != nil {
		return err
	}
	return s.rdb.HSet(ctx, s.key("command", cmd.DeviceID),
		"command", cmd.Command,
		"status", cmd.Status,
		"timestamp", cmd.Timestamp,
	).Err()
}

func (s *RedisStore) PendingCommand(ctx context.Context, deviceID string) (*models.Command, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key("command", deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read command: %w", err)
	}
	cmd := models.Command{
		DeviceID:  deviceID,
		Command:   fields["command"],
		Status:    fields["status"],
		Timestamp: fields["timestamp"],
	}
	if !cmd.Pending() {
		return nil, nil
	}
	return &cmd, nil
}

func (s *RedisStore) SaveEcho(ctx context.Context, echo models.Echo) error {
	if err := s.rdb.HSet(ctx, s.key("echo", echo.DeviceID),
		"output", echo.Output,
		"error", echo.Error,
		"timestamp", echo.Timestamp,
	).Err(); err != nil {
		return fmt.Errorf("save echo: %w", err)
	}
	ck := s.key("command", echo.DeviceID)
	n, err := s.rdb.Exists(ctx, ck).Result()
	if err != nil {
		return fmt.Errorf("save echo: %w", err)
	}
	if n == 0 {
		return nil
	}
	return s.rdb.HSet(ctx, ck, "status", models.CommandExecuted).Err()
}

func (s *RedisStore) Echo(ctx context.Context, deviceID string) (*models.Echo, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key("echo", deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read echo: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &models.Echo{
		DeviceID:  deviceID,
		Output:    fields["output"],
		Error:     fields["error"],
		Timestamp: fields["timestamp"],
	}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) requireDevice(ctx context.Context, deviceID string) error {
	n, err := s.rdb.Exists(ctx, s.key("device", deviceID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
