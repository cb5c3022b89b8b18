package gatekeeper

import (
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// EnvConfig is the process-wide auth configuration, read once at startup
// from the environment (optionally seeded from a .env file) and immutable
// afterwards.
type EnvConfig struct {
	SigningKey  string
	TokenTTL    time.Duration
	Issuer      string
	AuthScheme  string
	ContextKey  string
	PublicPaths []string
}

// LoadConfig reads configuration from the environment. Given file paths are
// loaded into the environment first; a missing .env is not an error since
// production deploys set real environment variables.
func LoadConfig(files ...string) (*EnvConfig, error) {
	_ = godotenv.Load(files...)

	cfg := &EnvConfig{
		SigningKey: os.Getenv("GATEKEEPER_SIGNING_KEY"),
		Issuer:     getEnv("GATEKEEPER_ISSUER", "gatekeeper"),
		AuthScheme: getEnv("GATEKEEPER_AUTH_SCHEME", "Bearer"),
		ContextKey: getEnv("GATEKEEPER_CONTEXT_KEY", DefaultContextKey),
		TokenTTL:   24 * time.Hour,
	}

	if cfg.SigningKey == "" {
		return nil, errors.New("GATEKEEPER_SIGNING_KEY is required", errors.CategoryValidation)
	}

	if raw := os.Getenv("GATEKEEPER_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid GATEKEEPER_TOKEN_TTL")
		}
		cfg.TokenTTL = ttl
	}

	cfg.PublicPaths = splitPaths(getEnv("GATEKEEPER_PUBLIC_PATHS", "/auth"))

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string      { return c.SigningKey }
func (c *EnvConfig) GetTokenTTL() time.Duration { return c.TokenTTL }
func (c *EnvConfig) GetIssuer() string          { return c.Issuer }
func (c *EnvConfig) GetAuthScheme() string      { return c.AuthScheme }
func (c *EnvConfig) GetContextKey() string      { return c.ContextKey }
func (c *EnvConfig) GetPublicPaths() []string   { return c.PublicPaths }

var _ Config = (*EnvConfig)(nil)

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitPaths(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
