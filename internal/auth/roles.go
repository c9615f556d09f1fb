package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/domain"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

// RequireRole ensures the navigation session holds one of the allowed roles.
// This gates console affordances only; the gateway enforces authorization.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok || !session.Authenticated {
			return apperrors.NewUnauthorized("session required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if session.Role == nil {
			return apperrors.NewForbidden("role required")
		}
		if _, exists := allowedSet[*session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
