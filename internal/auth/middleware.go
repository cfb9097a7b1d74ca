package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Gate admits requests carrying a valid bearer token.
type Gate struct {
	verifier Verifier
}

// NewGate constructs the gate around a verifier.
func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// RequireAuthentication verifies the bearer token and attaches the Identity
// to the request context. An identity attached earlier in the chain is reused.
func (g *Gate) RequireAuthentication(c *fiber.Ctx) error {
	if _, ok := IdentityFromContext(c.UserContext()); ok {
		return c.Next()
	}

	token, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	identity, err := g.verifier.Verify(token)
	if err != nil {
		return err
	}

	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

// CurrentIdentity returns the identity for the request, if any.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	return IdentityFromContext(c.UserContext())
}
