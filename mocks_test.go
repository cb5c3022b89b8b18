package gatekeeper_test

import (
	"context"
	"time"

	gatekeeper "github.com/goliatone/go-gatekeeper"
	"github.com/stretchr/testify/mock"
)

// MockIdentity implements gatekeeper.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Roles() []string {
	args := m.Called()
	if roles, ok := args.Get(0).([]string); ok {
		return roles
	}
	return nil
}

// MockIdentityProvider implements gatekeeper.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (gatekeeper.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if identity, ok := args.Get(0).(gatekeeper.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (gatekeeper.Identity, error) {
	args := m.Called(ctx, identifier)
	if identity, ok := args.Get(0).(gatekeeper.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockDirectory implements gatekeeper.Directory for testing
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetByUsername(ctx context.Context, username string) (*gatekeeper.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*gatekeeper.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) RolesFor(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	if roles, ok := args.Get(0).([]string); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockConfig struct {
	signingKey  string
	ttl         time.Duration
	issuer      string
	authScheme  string
	contextKey  string
	publicPaths []string
}

func newMockConfig() *mockConfig {
	return &mockConfig{
		signingKey:  "test-signing-key",
		ttl:         time.Hour,
		issuer:      "gatekeeper-test",
		authScheme:  "Bearer",
		contextKey:  gatekeeper.DefaultContextKey,
		publicPaths: []string{"/auth"},
	}
}

func (c *mockConfig) GetSigningKey() string      { return c.signingKey }
func (c *mockConfig) GetTokenTTL() time.Duration { return c.ttl }
func (c *mockConfig) GetIssuer() string          { return c.issuer }
func (c *mockConfig) GetAuthScheme() string      { return c.authScheme }
func (c *mockConfig) GetContextKey() string      { return c.contextKey }
func (c *mockConfig) GetPublicPaths() []string   { return c.publicPaths }

// staticIdentity is a plain value identity for tests that do not need
// expectation bookkeeping
type staticIdentity struct {
	id       string
	username string
	email    string
	roles    []string
}

func (s staticIdentity) ID() string       { return s.id }
func (s staticIdentity) Username() string { return s.username }
func (s staticIdentity) Email() string    { return s.email }
func (s staticIdentity) Roles() []string  { return s.roles }
