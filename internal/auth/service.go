package auth

import (
	"fmt"

	"gorm.io/gorm"
)

// Service provides authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) userCapabilities(userID uint64) *gorm.DB {
	return s.db.Table("capabilities").
		Joins("JOIN role_capabilities ON role_capabilities.capability_id = capabilities.id").
		Joins("JOIN users ON users.role_id = role_capabilities.role_id").
		Where("users.id = ? AND users.active = ?", userID, true)
}

// HasCapability checks if a user's role holds a specific capability.
// Inactive users hold nothing.
func (s *Service) HasCapability(userID uint64, capability string) (bool, error) {
	var count int64

	err := s.userCapabilities(userID).
		Where("capabilities.name = ?", capability).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check capability: %w", err)
	}

	return count > 0, nil
}

// Capabilities retrieves all capability names of a user.
func (s *Service) Capabilities(userID uint64) ([]string, error) {
	var capabilities []string

	err := s.userCapabilities(userID).
		Order("capabilities.name").
		Pluck("capabilities.name", &capabilities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user capabilities: %w", err)
	}

	return capabilities, nil
}
