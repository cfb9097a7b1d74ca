package auth

import (
	"context"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// Identity is the verified caller attached to a request.
type Identity struct {
	SubjectID string
	Role      domain.Role
	Email     string
	Name      string
}

// HasRole reports whether the identity holds one of roles.
func (i Identity) HasRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(domain.RoleAdmin).
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by RequireAuthentication.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
