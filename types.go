package gatekeeper

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of a verified identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Roles() []string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
}

// LoginResult is the outcome of a successful login: the signed token plus
// the minimal public profile returned to the caller.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// TokenService issues and validates signed tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// Directory is the persistent store of credentials and role assignments.
// Lookups are case-sensitive exact matches on username.
type Directory interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	RolesFor(ctx context.Context, username string) ([]string, error)
}

// RoleSource is the subset of Directory the request filter needs to
// re-derive a subject's role set on every request.
type RoleSource interface {
	RolesFor(ctx context.Context, username string) ([]string, error)
}

// Config holds auth options. Values are loaded once at process start and
// never mutated, so unsynchronized concurrent reads are safe.
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAuthScheme() string
	GetContextKey() string
	GetPublicPaths() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATEKEEPER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
