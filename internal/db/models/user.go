package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User is an account that can log in. Logged-in users are never shown the
// maintenance notice.
type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Active   bool
	Username string `gorm:"unique;size:100;not null"`
	Email    string `gorm:"size:255"`
	// Password is the Argon2id hash.
	Password string `gorm:"size:255" json:"-"`
	RoleID   uint   `gorm:"column:role_id;not null"`
	Role     Role   `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HashPassword hashes a plaintext password using Argon2id with default parameters.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword compares password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
