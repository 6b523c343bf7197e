// Package dashboard provides the admin landing page with the curtain status.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
	"github.com/GoCurtain/GoCurtain/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.AdminPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"
)

// Status is the curtain state shown on the dashboard.
type Status struct {
	Hidden   bool
	Heading  string
	Managers []string
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	plugin *curtain.Plugin
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler on the admin router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, plugin *curtain.Plugin) {
	if router == nil || cfg == nil || plugin == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.plugin = plugin

	router.Get(handler.RouterRootPath, s.Get)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	rec, err := s.plugin.Options()
	if err != nil {
		log.Error().Err(err).Msg("failed to load curtain options")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load curtain status")
	}

	managers, err := capability.Granted(s.plugin.DB())
	if err != nil {
		log.Error().Err(err).Msg("failed to load curtain managers")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load curtain status")
	}

	log.Debug().
		Int("mode", rec.Mode).
		Strs("managers", managers).
		Msg("dashboard status retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Title":      s.cfg.Title,
		"Status": Status{
			Hidden:   rec.Hidden(),
			Heading:  rec.Heading,
			Managers: managers,
		},
	}, handler.BaseLayout)
}
