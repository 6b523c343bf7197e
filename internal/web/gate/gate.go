// Package gate hides the site from anonymous visitors while the curtain is
// down.
package gate

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/contrast"
	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

// TemplateName is the notice page shown to blocked visitors.
const TemplateName = "notice"

var (
	blocked     prometheus.Counter //nolint:gochecknoglobals
	blockedOnce sync.Once          //nolint:gochecknoglobals
)

// Loader reads the options record.
type Loader interface {
	Options() (options.Record, error)
}

// Config for the gate middleware.
type Config struct {
	// Next defines a function to skip this middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Loader provides the options record, required.
	Loader Loader

	// LoginPath is never blocked.
	LoginPath string

	// PublicPrefixes are path prefixes that stay reachable, e.g. the static
	// assets the login page needs.
	PublicPrefixes []string

	// Title is passed to the notice template.
	Title string
}

// Allow reports whether a request gets through. It does when the curtain is
// up, the requester is logged in, or the request targets the login page.
func Allow(mode int, authenticated bool, path, loginPath string) bool {
	if mode == options.ModeOff || authenticated {
		return true
	}

	if loginPath == "" {
		return false
	}

	return path == loginPath || strings.HasPrefix(path, strings.TrimSuffix(loginPath, "/")+"/")
}

func blockedCounter() prometheus.Counter {
	blockedOnce.Do(func() {
		blocked = promauto.NewCounter(prometheus.CounterOpts{
			Name: "curtain_blocked_requests_total",
			Help: "Number of requests answered with the maintenance notice.",
		})
	})

	return blocked
}

// New creates the gate middleware.
func New(cfg Config) fiber.Handler {
	if cfg.Loader == nil {
		panic("gate: loader cannot be nil")
	}

	counter := blockedCounter()

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		path := c.Path()
		for _, prefix := range cfg.PublicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authenticated := session.CurrentUser(c) != nil
		if authenticated {
			return c.Next()
		}

		rec, err := cfg.Loader.Options()
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("gate: failed to read options, letting request through")
			return c.Next()
		}

		if Allow(rec.Mode, authenticated, path, cfg.LoginPath) {
			return c.Next()
		}

		counter.Inc()

		return c.Status(fiber.StatusServiceUnavailable).Render(TemplateName, fiber.Map{
			"Title":       cfg.Title,
			"Heading":     rec.Heading,
			"Description": rec.Description,
			"Background":  rec.Background,
			"TextColor":   contrast.Text(rec.Background),
		})
	}
}
