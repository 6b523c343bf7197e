package settings

import (
	"errors"
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/handler"
	"github.com/GoCurtain/GoCurtain/internal/web/handler/dashboard"
	"github.com/GoCurtain/GoCurtain/internal/web/navigation"
	"github.com/GoCurtain/GoCurtain/internal/web/toggle"
)

const (
	// Path is the path to the curtain settings page.
	Path = handler.AdminPath + "/settings/curtain"

	// OptionsPath is the generic options page; page=curtain shows this page.
	OptionsPath = handler.AdminPath + "/options-general"

	// TemplateName is the name of the curtain settings template.
	TemplateName = "admin/settings/curtain"

	// ResetClass marks the reset link as relevant.
	ResetClass = "show"

	// CSRFField is the form field carrying the CSRF token.
	CSRFField = "_csrf"

	// CSRFCookie holds the token the form field is compared against.
	CSRFCookie = "curtain_csrf"

	csrfContextKey = "csrf"
	csrfExpiration = time.Hour
)

// RoleOption is a role in the managers select.
type RoleOption struct {
	Name     string
	Label    string
	Selected bool
}

// Service is the curtain settings handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	plugin *curtain.Plugin
}

// Handler is the curtain settings handler.
var Handler = Service{}

// Init initializes the settings handler on the admin router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, plugin *curtain.Plugin, authService *auth.Service) {
	if router == nil || cfg == nil || plugin == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.plugin = plugin

	guard := auth.RequireCapability(authService, capability.ManageOptions)
	protect := csrf.New(csrf.Config{
		KeyLookup:      "form:" + CSRFField,
		CookieName:     CSRFCookie,
		CookieSecure:   !cfg.DevMode,
		CookieHTTPOnly: true,
		CookieSameSite: "Strict",
		Expiration:     csrfExpiration,
		ContextKey:     csrfContextKey,
	})

	router.Get("/settings/curtain", guard, protect, s.Get)
	router.Post("/settings/curtain", guard, protect, s.Post)
	router.Get("/options-general", guard, protect, s.options)
}

// options serves the curtain settings for page=curtain on the generic
// options path.
func (s *Service) options(c *fiber.Ctx) error {
	if c.Query(toggle.ParamPage) != toggle.PageName {
		return fiber.ErrNotFound
	}

	return s.Get(c)
}

// Get handles the settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	rec, err := s.plugin.Options()
	if err != nil {
		log.Error().Err(err).Msg("failed to load curtain options")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	return s.render(c, fiber.StatusOK, rec, fiber.Map{})
}

// Post handles the settings form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	old, err := s.plugin.Options()
	if err != nil {
		log.Error().Err(err).Msg("failed to load curtain options")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	db := s.plugin.DB()

	rec, err := Sanitize(old, parseForm(c), RoleReplacerFunc(func(roles []string) error {
		return capability.Replace(db, roles)
	}))

	extra := fiber.Map{}
	status := fiber.StatusOK

	switch {
	case errors.Is(err, ErrInvalidBackground):
		extra["Error"] = err.Error()
		status = fiber.StatusBadRequest
	case err != nil:
		log.Error().Err(err).Msg("failed to sanitize curtain settings")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save settings")
	}

	if _, err = options.Update(db, rec); err != nil {
		log.Error().Err(err).Msg("failed to save curtain settings")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save settings")
	}

	if status == fiber.StatusOK {
		extra["Success"] = "Settings saved."
	}

	return s.render(c, status, rec, extra)
}

func (s *Service) render(c *fiber.Ctx, status int, rec options.Record, extra fiber.Map) error {
	nav := navigation.NewContext("Curtain", "settings", "curtain").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Settings", "#", false).
		AddBreadcrumb("Curtain", Path, true)

	roles, err := s.roleOptions()
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load roles")
	}

	needReset, err := s.plugin.NeedReset()
	if err != nil {
		log.Error().Err(err).Msg("failed to compare curtain settings with defaults")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	resetClass := ""
	if needReset {
		resetClass = ResetClass
	}

	data := fiber.Map{
		"Navigation":        nav,
		"Title":             s.cfg.Title,
		"Fields":            Fields(),
		"Options":           rec,
		"Roles":             roles,
		"DefaultBackground": s.plugin.Defaults().Background,
		"ResetURL":          Path + "?" + toggle.ParamReset + "=1",
		"ResetClass":        resetClass,
		"CSRFField":         CSRFField,
		"CSRF":              c.Locals(csrfContextKey),
	}

	for k, v := range extra {
		data[k] = v
	}

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}

func (s *Service) roleOptions() ([]RoleOption, error) {
	db := s.plugin.DB()

	roles, err := capability.Roles(db)
	if err != nil {
		return nil, err
	}

	granted, err := capability.Granted(db)
	if err != nil {
		return nil, err
	}

	out := make([]RoleOption, 0, len(roles))

	for _, r := range roles {
		label := r.DisplayName
		if label == "" {
			label = r.Name
		}

		out = append(out, RoleOption{
			Name:     r.Name,
			Label:    label,
			Selected: slices.Contains(granted, r.Name),
		})
	}

	return out, nil
}
