// Package capability manages which roles hold a capability.
package capability

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoCurtain/GoCurtain/internal/db/models"
)

const (
	// ManageCurtain allows toggling the curtain.
	ManageCurtain = "manage_curtain"
	// ManageOptions allows changing site settings, including resetting the curtain.
	ManageOptions = "manage_options"
)

var (
	// ErrRoleNotFound is returned when a role name does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

var defaultRoles = []string{"administrator", "editor"}

var descriptions = map[string]string{
	ManageCurtain: "Toggle the maintenance curtain",
	ManageOptions: "Manage site settings",
}

// Defaults returns the roles that hold ManageCurtain after activation.
func Defaults() []string {
	return slices.Clone(defaultRoles)
}

func capabilityRow(tx *gorm.DB, name string) (models.Capability, error) {
	c := models.Capability{Name: name, Description: descriptions[name]}

	err := tx.Where("name = ?", name).FirstOrCreate(&c).Error
	if err != nil {
		return c, fmt.Errorf("failed to get capability %s: %w", name, err)
	}

	return c, nil
}

// Add grants capability name to role. The capability row is created on
// first use.
func Add(db *gorm.DB, name, role string) error {
	if db == nil {
		return ErrDBNil
	}

	var r models.Role

	err := db.Where("name = ?", role).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
	}

	if err != nil {
		return fmt.Errorf("failed to get role %s: %w", role, err)
	}

	c, err := capabilityRow(db, name)
	if err != nil {
		return err
	}

	grant := models.RoleCapability{RoleID: r.ID, CapabilityID: c.ID}

	return db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&grant).Error
}

// Remove takes capability name away from every role.
func Remove(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	var c models.Capability

	err := db.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get capability %s: %w", name, err)
	}

	if err = db.Where("capability_id = ?", c.ID).Delete(&models.RoleCapability{}).Error; err != nil {
		return fmt.Errorf("failed to revoke capability %s: %w", name, err)
	}

	return nil
}

// Holders returns the sorted names of the roles holding capability name.
func Holders(db *gorm.DB, name string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []string

	err := db.Table("roles").
		Joins("JOIN role_capabilities ON role_capabilities.role_id = roles.id").
		Joins("JOIN capabilities ON capabilities.id = role_capabilities.capability_id").
		Where("capabilities.name = ?", name).
		Order("roles.name").
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holders of %s: %w", name, err)
	}

	return roles, nil
}

// Roles lists every known role in creation order.
func Roles(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// Grant gives ManageCurtain to the default roles. Missing roles are skipped.
func Grant(db *gorm.DB) error {
	for _, role := range defaultRoles {
		err := Add(db, ManageCurtain, role)
		if errors.Is(err, ErrRoleNotFound) {
			log.Warn().Str("role", role).Msg("default role missing, capability not granted")
			continue
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Revoke takes ManageCurtain away from every role.
func Revoke(db *gorm.DB) error {
	return Remove(db, ManageCurtain)
}

// Granted returns the sorted roles currently holding ManageCurtain.
func Granted(db *gorm.DB) ([]string, error) {
	return Holders(db, ManageCurtain)
}

// Replace makes roles the exact set holding ManageCurtain. Unknown role names
// are skipped with a warning.
func Replace(db *gorm.DB, roles []string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := Remove(tx, ManageCurtain); err != nil {
			return err
		}

		for _, role := range roles {
			err := Add(tx, ManageCurtain, role)
			if errors.Is(err, ErrRoleNotFound) {
				log.Warn().Str("role", role).Msg("unknown role ignored")
				continue
			}

			if err != nil {
				return err
			}
		}

		return nil
	})
}
