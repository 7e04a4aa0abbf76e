package models

// Echo is the latest execution result uploaded by a device.
type Echo struct {
	DeviceID  string `gorm:"primaryKey;size:191"`
	Output    string `gorm:"type:text"`
	Error     string `gorm:"type:text"`
	Timestamp string `gorm:"size:32"`
}
