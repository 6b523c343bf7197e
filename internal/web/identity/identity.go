// Package identity resolves the requester from the session cookie.
package identity

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

// Identify is a Fiber middleware that puts the logged-in user, if any, into
// the request context. It never rejects a request.
func Identify(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return c.Next()
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		log.Debug().Err(err).Msg("ignoring unreadable session")
		return c.Next()
	}

	if sessData.User.ID > 0 {
		session.SetUser(c, &sessData.User)
	}

	return c.Next()
}

// RequireLogin redirects anonymous requesters to loginPath, remembering
// where they wanted to go.
func RequireLogin(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.CurrentUser(c) != nil {
			return c.Next()
		}

		return c.Redirect(loginPath + "?redirect_to=" + url.QueryEscape(c.OriginalURL()))
	}
}
