package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoCurtain/GoCurtain/internal/web/session"
)

// RequireCapability creates Fiber middleware that requires a specific capability.
func RequireCapability(authService *Service, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := session.CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		has, err := authService.HasCapability(user.ID, capability)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).Str("capability", capability).
				Msg("Failed to check capability")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !has {
			log.Warn().Uint64("user_id", user.ID).Str("capability", capability).
				Msg("User lacks required capability")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// CurrentUserCan checks if the requester in the Fiber context holds a capability.
// Anonymous requesters and lookup failures count as "no".
func CurrentUserCan(c *fiber.Ctx, authService *Service, capability string) bool {
	user := session.CurrentUser(c)
	if user == nil {
		return false
	}

	has, err := authService.HasCapability(user.ID, capability)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Str("capability", capability).
			Msg("Failed to check capability")

		return false
	}

	return has
}

// AddCapabilitiesToLocals is a Fiber middleware that adds the requester's
// capabilities to fiber.Locals for conditional rendering in templates.
func AddCapabilitiesToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := session.CurrentUser(c)
		if user == nil {
			return c.Next()
		}

		capabilities, err := authService.Capabilities(user.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).
				Msg("Failed to get user capabilities")

			return c.Next()
		}

		c.Locals("capabilities", capabilities)
		c.Locals("can", func(capability string) bool {
			for _, have := range capabilities {
				if have == capability {
					return true
				}
			}

			return false
		})

		return c.Next()
	}
}
