package gatekeeper

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the validated facts carried inside a token
type AuthClaims interface {
	Subject() string
	Username() string
	Roles() []string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The subject is
// the username; the issuer and every verifier must agree on this shape.
type JWTClaims struct {
	jwt.RegisteredClaims
	Uname     string   `json:"uname,omitempty"`
	UserRoles []string `json:"roles,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Username returns the username, falling back to the subject
func (c *JWTClaims) Username() string {
	if c.Uname != "" {
		return c.Uname
	}
	return c.Subject()
}

// Roles returns the role set embedded at issuance time. Enforcement points
// that re-derive roles from the directory should prefer the fresh set.
func (c *JWTClaims) Roles() []string {
	return c.UserRoles
}

// HasRole checks if the embedded role set contains a specific role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// NormalizeRoles collapses duplicates while preserving first-seen order.
// Role sets are unordered; callers must not rely on position.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
