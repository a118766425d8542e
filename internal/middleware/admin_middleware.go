package middleware

import (
	"github.com/arzan03/PaperBot/internal/apperr"
	"github.com/arzan03/PaperBot/internal/constants"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return apperr.Unauthorized("Unauthorized request")
		}
		if !constants.RoleAllowed(Role(c), roles...) {
			return apperr.Forbidden("You are not allowed to perform this action")
		}
		return c.Next()
	}
}

// AdminOnly is RequireRoles(constants.RoleAdmin).
func AdminOnly() fiber.Handler {
	return RequireRoles(constants.RoleAdmin)
}
