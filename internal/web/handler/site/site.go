// Package site serves the public front page the curtain hides.
package site

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
)

const (
	// Path is the front page.
	Path = handler.RootPath

	// TemplateName is the name of the front page template.
	TemplateName = "site"
)

// Service is the front page handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the front page handler.
var Handler = Service{}

// Init initializes the front page handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config) error {
	if router == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return nil
	}

	s.cfg = cfg

	router.Get(Path, s.Get)

	return nil
}

// Get renders the front page.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}
