package models

const (
	CommandPending  = "pending"
	CommandExecuted = "executed"
)

// Command is the single command slot of a device. Sending a new command
// overwrites the slot; uploading an echo marks it executed.
type Command struct {
	DeviceID  string `gorm:"primaryKey;size:191"`
	Command   string `gorm:"type:text"`
	Status    string `gorm:"size:32;index"`
	Timestamp string `gorm:"size:32"`
}

func (c Command) Pending() bool { return c.Status == CommandPending }
