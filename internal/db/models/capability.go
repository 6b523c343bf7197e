package models

import "time"

// Capability is a named permission flag that can be granted to roles,
// e.g. "manage_curtain" or "manage_options".
type Capability struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

// TableName specifies the database table name for the Capability model.
func (Capability) TableName() string {
	return "capabilities"
}
