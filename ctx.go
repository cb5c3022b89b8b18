package gatekeeper

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is the fiber locals key enforcement points install the
// request identity under when no override is configured.
const DefaultContextKey = "identity"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// RequestIdentity is the request-scoped projection of validated claims:
// subject plus granted role set. It is created by an enforcement point on
// successful verification, discarded at request end, and never persisted.
type RequestIdentity struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

// HasRole checks if the identity carries a specific role
func (r *RequestIdentity) HasRole(role string) bool {
	if r == nil {
		return false
	}
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// WithRequestIdentity sets the RequestIdentity in the given context
func WithRequestIdentity(ctx context.Context, identity *RequestIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// RequestIdentityFromContext finds the identity from the context
func RequestIdentityFromContext(ctx context.Context) (*RequestIdentity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*RequestIdentity)
	return raw, ok
}

// RequestIdentityFromFiber extracts the identity installed in fiber locals
func RequestIdentityFromFiber(c *fiber.Ctx, key string) (*RequestIdentity, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(*RequestIdentity)
	return identity, ok
}
