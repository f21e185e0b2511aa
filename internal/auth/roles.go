package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RequireAccessLevel ensures the caller holds at least the given tier.
func RequireAccessLevel(level domain.AccessLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !principal.AccessLevel.AtLeast(level) {
			return fiber.NewError(http.StatusForbidden, "insufficient access level")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller handles tickets (staff or admin).
func RequireStaff() fiber.Handler {
	return RequireAccessLevel(domain.AccessLevelStaff)
}

// RequireAdmin ensures the caller is an administrator.
func RequireAdmin() fiber.Handler {
	return RequireAccessLevel(domain.AccessLevelAdmin)
}
