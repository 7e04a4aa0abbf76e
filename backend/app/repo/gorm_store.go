package repo

import (
	"context"
	"errors"

	"echo-relay/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps coordinator state in a SQL database (sqlite or mysql).
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) TouchDevice(ctx context.Context, deviceID, now string) (models.Device, error) {
	var d models.Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("device_id = ?", deviceID).First(&d).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			d = models.Device{DeviceID: deviceID, Alias: deviceID, LastOnline: now}
			return tx.Create(&d).Error
		}
		if err != nil {
			return err
		}
		d.LastOnline = now
		return tx.Model(&d).Update("last_online", now).Error
	})
	return d, err
}

func (s *GormStore) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *GormStore) SetAlias(ctx context.Context, deviceID, alias string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDevice(tx, deviceID); err != nil {
			return err
		}
		return tx.Model(&models.Device{}).Where("device_id = ?", deviceID).Update("alias", alias).Error
	})
}

func (s *GormStore) PutCommand(ctx context.Context, cmd models.Command) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireDevice(tx, cmd.DeviceID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}},
			UpdateAll: true,
		}).Create(&cmd).Error
	})
}

func (s *GormStore) PendingCommand(ctx context.Context, deviceID string) (*models.Command, error) {
	var cmd models.Command
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, models.CommandPending).
		First(&cmd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (s *GormStore) SaveEcho(ctx context.Context, echo models.Echo) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}},
			UpdateAll: true,
		}).Create(&echo).Error; err != nil {
			return err
		}
		return tx.Model(&models.Command{}).
			Where("device_id = ?", echo.DeviceID).
			Update("status", models.CommandExecuted).Error
	})
}

func (s *GormStore) Echo(ctx context.Context, deviceID string) (*models.Echo, error) {
	var echo models.Echo
	err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&echo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &echo, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) requireDevice(tx *gorm.DB, deviceID string) error {
	var n int64
	if err := tx.Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
