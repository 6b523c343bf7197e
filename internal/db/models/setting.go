// Package models contains database model definitions.
package models

// Setting is one named value of the options table. Values are opaque bytes,
// most callers store JSON.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:191;not null"`
	Value []byte
}
