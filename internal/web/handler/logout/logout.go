// Package logout ends the user session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

// Path is the logout endpoint.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config) error {
	if router == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg

	router.Get(Path, s.Logout)
	router.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(s.cfg.Curtain.LoginPath)
}
