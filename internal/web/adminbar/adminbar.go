// Package adminbar builds the curtain indicator shown in the admin bar.
package adminbar

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/toggle"
)

const (
	// LocalsKey holds the nodes for templates.
	LocalsKey = "adminBar"

	// ParentSecondary is the right-hand group of the admin bar.
	ParentSecondary = "top-secondary"

	paramActivate = "activate"
)

// Node is one admin bar entry.
type Node struct {
	ID     string
	Parent string
	Title  string
	Href   string
	Class  string
}

// Loader reads the options record.
type Loader interface {
	Options() (options.Record, error)
}

// Config for the admin bar middleware.
type Config struct {
	Loader      Loader
	AuthService *auth.Service

	// AdminPath is where front-end toggles are sent.
	AdminPath string
}

// Build returns the indicator nodes for mode. href is the toggle target.
func Build(mode int, href string) []Node {
	class, state := "off", "visible"
	if mode != options.ModeOff {
		class, state = "on", "hidden"
	}

	return []Node{
		{
			ID:     "curtain",
			Parent: ParentSecondary,
			Title:  "Curtain",
			Href:   href,
			Class:  class,
		},
		{
			ID:     "curtain-mode",
			Parent: "curtain",
			Title:  "Your site is " + state,
		},
	}
}

// Target returns the toggle link for the current request: the current admin
// page, or the admin dashboard for front-end pages, with curtain set to the
// opposite of mode.
func Target(c *fiber.Ctx, adminPath string, mode int) string {
	path := adminPath
	if c.Path() == adminPath || strings.HasPrefix(c.Path(), strings.TrimSuffix(adminPath, "/")+"/") {
		path = c.Path()
	}

	next := options.ModeOn
	if mode != options.ModeOff {
		next = options.ModeOff
	}

	return toggle.Link(c, path, toggle.ParamCurtain, strconv.Itoa(next), paramActivate)
}

// New creates a middleware exposing the nodes to holders of ManageCurtain.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.CurrentUserCan(c, cfg.AuthService, capability.ManageCurtain) {
			return c.Next()
		}

		rec, err := cfg.Loader.Options()
		if err != nil {
			log.Error().Err(err).Msg("admin bar: failed to read options")
			return c.Next()
		}

		c.Locals(LocalsKey, Build(rec.Mode, Target(c, cfg.AdminPath, rec.Mode)))

		return c.Next()
	}
}
