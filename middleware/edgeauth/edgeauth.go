// Package edgeauth is the gateway enforcement point. It validates bearer
// tokens with the same routine as the in-process filter but, instead of
// installing an identity context, rewrites the forwarded request with
// identity headers downstream backends may trust.
//
// The headers form an internal trust boundary: only backends reachable
// exclusively through the gateway may treat them as authoritative. Any
// externally supplied values are stripped before verification, so a client
// can never smuggle its own identity past the edge.
package edgeauth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	gatekeeper "github.com/goliatone/go-gatekeeper"
)

const (
	// HeaderUserName carries the verified subject to downstream backends
	HeaderUserName = "X-User-Name"
	// HeaderUserRoles carries the verified role list, comma separated
	HeaderUserRoles = "X-User-Roles"
)

type Config struct {
	// Validator is required and checks signature and expiry
	Validator gatekeeper.TokenValidator

	// PublicPaths are forwarded without verification and without identity
	// headers
	PublicPaths []string

	// AuthScheme defaults to "Bearer"
	AuthScheme string

	// SubjectHeader defaults to HeaderUserName
	SubjectHeader string

	// RolesHeader defaults to HeaderUserRoles
	RolesHeader string

	// ErrorHandler responds when verification fails; the request is never
	// forwarded in that case
	ErrorHandler func(c *fiber.Ctx, err error) error
}

// New builds the edge authentication filter
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		// never trust identity headers arriving from outside the edge
		c.Request().Header.Del(cfg.SubjectHeader)
		c.Request().Header.Del(cfg.RolesHeader)

		if gatekeeper.MatchesPublicPath(c.Path(), cfg.PublicPaths) {
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

		c.Request().Header.Set(cfg.SubjectHeader, claims.Subject())
		c.Request().Header.Set(cfg.RolesHeader, JoinRoles(claims.Roles()))

		return c.Next()
	}
}

// Forward returns a handler that proxies the (by now rewritten) request to
// the backend at target.
func Forward(target string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return proxy.Do(c, target+c.OriginalURL())
	}
}

// JoinRoles flattens a role set into the header wire format
func JoinRoles(roles []string) string {
	return strings.Join(gatekeeper.NormalizeRoles(roles), ",")
}

// SplitRoles parses the header wire format back into a role set. Backends
// behind the gateway use it to read the forwarded identity.
func SplitRoles(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return gatekeeper.NormalizeRoles(out)
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("GATEKEEPER: edge auth middleware configuration: Validator is required.")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.SubjectHeader == "" {
		cfg.SubjectHeader = HeaderUserName
	}

	if cfg.RolesHeader == "" {
		cfg.RolesHeader = HeaderUserRoles
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
