package auth

import "errors"

var (
	// ErrUserNameExists is returned when attempting to create a user with a username that already exists.
	ErrUserNameExists = errors.New("user with username already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
