package models

import "time"

// Device is one agent known to the coordinator. Alias defaults to DeviceID
// on first heartbeat.
type Device struct {
	ID         uint   `gorm:"primaryKey"`
	DeviceID   string `gorm:"uniqueIndex;size:191;not null"`
	Alias      string `gorm:"size:255"`
	LastOnline string `gorm:"size:32"`
	CreatedAt  time.Time
}
