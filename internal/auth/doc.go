// Package auth provides local authentication and capability checks.
//
// Users log in with a username and an Argon2id hashed password stored in the
// users table (LocalProvider). Every user has exactly one role, and roles
// hold capabilities through the role_capabilities table.
//
// # Capability Checking
//
// The Service type answers whether a user holds a capability:
//   - HasCapability: check a single capability
//   - Capabilities: list every capability of a user
//
// # Middleware
//
// Fiber middleware functions are provided for route protection. They expect
// the requester to be resolved into fiber.Locals by the identity middleware:
//   - RequireCapability: answer 403 unless the user holds the capability
//   - AddCapabilitiesToLocals: expose the user's capabilities to templates
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/admin/settings/curtain",
//	    auth.RequireCapability(authService, capability.ManageOptions),
//	    handler,
//	)
package auth
