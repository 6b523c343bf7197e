// Package notice shows the confirmation after the curtain was toggled.
package notice

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoCurtain/GoCurtain/internal/options"
	"github.com/GoCurtain/GoCurtain/internal/web/toggle"
)

// LocalsKey holds the notice for templates.
const LocalsKey = "notice"

// Notice is an admin notice.
type Notice struct {
	Message string
	Class   string
}

// For returns the notice reporting mode.
func For(mode int) Notice {
	if mode != options.ModeOff {
		return Notice{Message: "The Maintenance mode has been activated.", Class: "updated"}
	}

	return Notice{Message: "The Maintenance mode has been deactivated.", Class: "error"}
}

// New exposes a notice when the mode query parameter is present.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().URI().QueryArgs().Has(toggle.ParamMode) {
			c.Locals(LocalsKey, For(options.ParseInt(c.Query(toggle.ParamMode))))
		}

		return c.Next()
	}
}
