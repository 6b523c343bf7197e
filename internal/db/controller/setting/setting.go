// Package setting is the named key/value options API every component
// persists its settings through.
package setting

import (
	"bytes"
	"errors"

	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func check(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return nil
}

func find(db *gorm.DB, name string) (*models.Setting, error) {
	var s models.Setting

	result := db.Where(nameQueryPattern, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &s, nil
}

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	return find(db, name)
}

// GetAll retrieves all settings from the database.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if err := db.Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// Create adds a new setting. An existing setting of the same name is left
// untouched and ErrSettingAlreadyExists is returned.
func Create(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	_, err := find(db, name)
	if err == nil {
		return nil, ErrSettingAlreadyExists
	}

	if !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}

	s := &models.Setting{
		Name:  name,
		Value: value,
	}

	if err = db.Create(s).Error; err != nil {
		return nil, err
	}

	return s, nil
}

// Set creates or updates a setting by name and reports whether the stored
// value changed. Writing the value that is already stored is a no-op.
func Set(db *gorm.DB, name string, value []byte) (bool, error) {
	if err := check(db, name); err != nil {
		return false, err
	}

	s, err := find(db, name)
	if errors.Is(err, ErrSettingNotFound) {
		if _, err = Create(db, name, value); err != nil {
			return false, err
		}

		return true, nil
	}

	if err != nil {
		return false, err
	}

	if bytes.Equal(s.Value, value) {
		return false, nil
	}

	s.Value = value
	if err = db.Save(s).Error; err != nil {
		return false, err
	}

	return true, nil
}

// DeleteByName deletes a setting by name.
func DeleteByName(db *gorm.DB, name string) error {
	if err := check(db, name); err != nil {
		return err
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
