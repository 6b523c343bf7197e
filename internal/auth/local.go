package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Preload("Role").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user with the given role.
func (p *LocalProvider) CreateUser(username, email, password string, roleID uint) (*models.User, error) {
	var existingUser models.User

	err := p.db.Where("username = ?", username).First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:    true,
		Username:  username,
		Email:     email,
		Password:  models.HashPassword(password),
		RoleID:    roleID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err = p.db.Omit("Role").Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ResetPassword sets a new password for username.
func (p *LocalProvider) ResetPassword(username, newPassword string) error {
	result := p.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("password", models.HashPassword(newPassword))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
