// Package toggle handles the curtain flip and reset requests on admin pages.
package toggle

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/options"
)

const (
	// ParamCurtain carries the requested mode.
	ParamCurtain = "curtain"
	// ParamMode reports the new mode after a flip.
	ParamMode = "mode"
	// ParamReset asks for a reset on the settings page.
	ParamReset = "reset"
	// ParamPage names the settings page on the generic options path.
	ParamPage = "page"

	// PageName is the value of ParamPage addressing the curtain settings.
	PageName = "curtain"
)

// Plugin is the part of the curtain lifecycle the toggle needs.
type Plugin interface {
	SetMode(mode int) (bool, error)
	Reset() error
}

// Config for the toggle middleware.
type Config struct {
	Plugin      Plugin
	AuthService *auth.Service

	// SettingsPath is the curtain settings page.
	SettingsPath string

	// OptionsPath is the generic options page, which addresses the curtain
	// settings with page=curtain.
	OptionsPath string
}

// Link returns path carrying the current query string with drop removed and
// key set to value.
func Link(c *fiber.Ctx, path, key, value string, drop ...string) string {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}

	for _, name := range drop {
		query.Del(name)
	}

	query.Set(key, value)

	return path + "?" + query.Encode()
}

func hasQuery(c *fiber.Ctx, name string) bool {
	return c.Request().URI().QueryArgs().Has(name)
}

// IsSettingsPage reports whether the request targets the curtain settings.
func (cfg Config) IsSettingsPage(c *fiber.Ctx) bool {
	path := c.Path()
	if path == cfg.SettingsPath {
		return true
	}

	return cfg.OptionsPath != "" && path == cfg.OptionsPath && c.Query(ParamPage) == PageName
}

// New creates the toggle middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Plugin == nil || cfg.AuthService == nil {
		panic("toggle: plugin and auth service are required")
	}

	return func(c *fiber.Ctx) error {
		if hasQuery(c, ParamCurtain) {
			done, err := flip(c, cfg)
			if done || err != nil {
				return err
			}
		}

		if hasQuery(c, ParamReset) && cfg.IsSettingsPage(c) {
			return reset(c, cfg)
		}

		return c.Next()
	}
}

// flip writes the requested mode. It reports whether the response is
// complete.
func flip(c *fiber.Ctx, cfg Config) (bool, error) {
	if !auth.CurrentUserCan(c, cfg.AuthService, capability.ManageCurtain) {
		return true, c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to toggle the curtain")
	}

	mode := options.ParseInt(c.Query(ParamCurtain))

	changed, err := cfg.Plugin.SetMode(mode)
	if err != nil {
		log.Error().Err(err).Int("mode", mode).Msg("failed to toggle curtain")
		return true, c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	if !changed {
		return false, nil
	}

	return true, c.Redirect(Link(c, c.Path(), ParamMode, strconv.Itoa(mode), ParamCurtain))
}

func reset(c *fiber.Ctx, cfg Config) error {
	if !auth.CurrentUserCan(c, cfg.AuthService, capability.ManageOptions) {
		return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to reset the curtain")
	}

	if err := cfg.Plugin.Reset(); err != nil {
		log.Error().Err(err).Msg("failed to reset curtain")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	log.Info().Msg("curtain settings reset")

	return c.Redirect(cfg.SettingsPath)
}
