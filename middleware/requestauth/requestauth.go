// Package requestauth is the in-process enforcement point for backend
// services. It runs once per request: public paths pass through untouched,
// every other request must carry a valid bearer token before the downstream
// handler is invoked.
package requestauth

import (
	"github.com/gofiber/fiber/v2"
	gatekeeper "github.com/goliatone/go-gatekeeper"
)

type Config struct {
	// Validator is required and checks signature and expiry
	Validator gatekeeper.TokenValidator

	// Roles re-derives the subject's role set from the directory on every
	// request instead of trusting the roles embedded in the token. Optional;
	// when nil the embedded set is used.
	Roles gatekeeper.RoleSource

	// PublicPaths pass through with no identity installed
	PublicPaths []string

	// AuthScheme defaults to "Bearer"
	AuthScheme string

	// ContextKey is the fiber locals key the identity is installed under
	ContextKey string

	// ErrorHandler responds to verification failures. The default collapses
	// every failure to a uniform unauthenticated response so callers cannot
	// tell which check rejected them.
	ErrorHandler func(c *fiber.Ctx, err error) error
}

// New builds the request authentication filter
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if gatekeeper.MatchesPublicPath(c.Path(), cfg.PublicPaths) {
			return c.Next()
		}

		// duplicate filter execution: identity already installed
		if _, ok := gatekeeper.RequestIdentityFromFiber(c, cfg.ContextKey); ok {
			return c.Next()
		}

		raw, err := gatekeeper.ExtractBearerToken(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		roles := claims.Roles()
		if cfg.Roles != nil {
			fresh, err := cfg.Roles.RolesFor(c.UserContext(), claims.Subject())
			if err != nil {
				// directory I/O failure is not a security failure
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "internal server error",
				})
			}
			roles = fresh
		}

		identity := &gatekeeper.RequestIdentity{
			Subject: claims.Subject(),
			Roles:   gatekeeper.NormalizeRoles(roles),
		}

		c.Locals(cfg.ContextKey, identity)
		c.SetUserContext(gatekeeper.WithRequestIdentity(c.UserContext(), identity))

		return c.Next()
	}
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("GATEKEEPER: request auth middleware configuration: Validator is required.")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = gatekeeper.DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "unauthenticated",
			})
		}
	}

	return cfg
}
