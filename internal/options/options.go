// Package options reads and writes the curtain options record.
//
// The record is a single JSON document stored in the settings table under
// the name "curtain". It always holds exactly four fields: mode, background,
// heading and description. The roles allowed to toggle the curtain are not
// part of it, they live in the capability grants.
package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/db/controller/setting"
)

// Name is the settings row holding the record.
const Name = "curtain"

const (
	// ModeOff lets every visitor see the site.
	ModeOff = 0
	// ModeOn hides the site from anonymous visitors.
	ModeOn = 1

	// DefaultBackground is used when no theme background is configured.
	DefaultBackground = "#ffffff"
	// DefaultHeading is the heading of a fresh record.
	DefaultHeading = "Maintenance"
	// DefaultDescription is the description of a fresh record.
	DefaultDescription = "Please excuse the inconveniences, this site is currently in maintenance work. — Check back soon!"
)

// Record is the persisted options record.
type Record struct {
	Mode        int    `json:"mode"`
	Background  string `json:"background"`
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

// Scalars is the part of a record a reset restores.
type Scalars struct {
	Background  string
	Heading     string
	Description string
}

// Scalars returns the record without its mode.
func (r Record) Scalars() Scalars {
	return Scalars{
		Background:  r.Background,
		Heading:     r.Heading,
		Description: r.Description,
	}
}

// Hidden reports whether the curtain is down.
func (r Record) Hidden() bool {
	return r.Mode != ModeOff
}

// Defaults returns the record written on activation. themeBackground is the
// configured theme background color with or without a leading '#'.
func Defaults(themeBackground string) Record {
	background := DefaultBackground

	if theme := strings.TrimPrefix(strings.TrimSpace(themeBackground), "#"); theme != "" {
		background = "#" + theme
	}

	return Record{
		Mode:        ModeOff,
		Background:  background,
		Heading:     DefaultHeading,
		Description: DefaultDescription,
	}
}

// Load reads the record. An absent record yields the empty record.
func Load(db *gorm.DB) (Record, error) {
	var rec Record

	s, err := setting.Get(db, Name)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return rec, nil
	}

	if err != nil {
		return rec, fmt.Errorf("failed to read options: %w", err)
	}

	if len(s.Value) == 0 {
		return rec, nil
	}

	if err = json.Unmarshal(s.Value, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode options: %w", err)
	}

	return rec, nil
}

// Add stores rec only when no record exists yet and reports whether it did.
func Add(db *gorm.DB, rec Record) (bool, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	_, err = setting.Create(db, Name, value)
	if errors.Is(err, setting.ErrSettingAlreadyExists) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to add options: %w", err)
	}

	return true, nil
}

// Update stores rec and reports whether the stored record changed. Writing
// the record that is already stored does nothing.
func Update(db *gorm.DB, rec Record) (bool, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	changed, err := setting.Set(db, Name, value)
	if err != nil {
		return false, fmt.Errorf("failed to update options: %w", err)
	}

	return changed, nil
}

// Delete removes the record. Deleting an absent record is not an error.
func Delete(db *gorm.DB) error {
	err := setting.DeleteByName(db, Name)
	if err == nil || errors.Is(err, setting.ErrSettingNotFound) {
		return nil
	}

	return fmt.Errorf("failed to delete options: %w", err)
}
