package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/domain"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// RequireRole admits only identities holding one of the allowed roles. It must
// follow RequireAuthentication; without an identity it denies.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return apperrors.NewForbidden("authentication required")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
