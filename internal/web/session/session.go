// Package session keeps logged-in users in a fiber session storage.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/GoCurtain/GoCurtain/internal/db/models"
)

const (
	// CookieName is the cookie carrying the session ID.
	CookieName = "session"

	localsUser = "user"
)

// ErrNoSession is returned when the storage holds nothing for a session ID.
var ErrNoSession = errors.New("session not found")

// Store is the global session store instance.
var Store *session.Store

// Data represents the session data structure.
type Data struct {
	User models.User
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data for the given session ID.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:   storage,
		KeyLookup: "cookie:" + CookieName,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// SetUser stores the resolved requester in the request context.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(localsUser, user)
}

// CurrentUser returns the requester resolved for this request, or nil for
// anonymous visitors.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(localsUser).(*models.User)
	if !ok || user == nil || user.ID == 0 {
		return nil
	}

	return user
}
