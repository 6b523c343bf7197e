package models

import "time"

// Role is a named set of capabilities users are assigned to.
type Role struct {
	ID uint `gorm:"primaryKey"`
	// Name is the role identifier, e.g. "administrator" or "editor".
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is shown in role pickers.
	DisplayName string `gorm:"size:100"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
