package requestauth_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	gatekeeper "github.com/goliatone/go-gatekeeper"
	"github.com/goliatone/go-gatekeeper/middleware/requestauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoleSource struct {
	roles map[string][]string
	err   error
	calls int
}

func (s *stubRoleSource) RolesFor(ctx context.Context, username string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[username], nil
}

func newTokenService() *gatekeeper.TokenServiceImpl {
	return gatekeeper.NewTokenService([]byte("test-signing-key"), time.Hour, "gatekeeper-test", nil)
}

func issueToken(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := newTokenService().Generate(tokenIdentity{username: "alice", roles: roles})
	require.NoError(t, err)
	return token
}

type tokenIdentity struct {
	username string
	roles    []string
}

func (i tokenIdentity) ID() string       { return i.username }
func (i tokenIdentity) Username() string { return i.username }
func (i tokenIdentity) Email() string    { return "" }
func (i tokenIdentity) Roles() []string  { return i.roles }

type appState struct {
	invoked  bool
	identity *gatekeeper.RequestIdentity
	fromCtx  *gatekeeper.RequestIdentity
}

func newApp(cfg requestauth.Config) (*fiber.App, *appState) {
	state := &appState{}
	app := fiber.New()
	app.Use(requestauth.New(cfg))

	record := func(c *fiber.Ctx) error {
		state.invoked = true
		state.identity, _ = gatekeeper.RequestIdentityFromFiber(c, cfg.ContextKey)
		state.fromCtx, _ = gatekeeper.RequestIdentityFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusOK)
	}

	app.Get("/auth/status", record)
	app.Get("/users/me", record)

	return app, state
}

func TestRequestFilterPublicPath(t *testing.T) {
	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		PublicPaths: []string{"/auth"},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/status", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, state.invoked)
	assert.Nil(t, state.identity, "public requests carry no identity")
	assert.Nil(t, state.fromCtx)
}

func TestRequestFilterMissingToken(t *testing.T) {
	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		PublicPaths: []string{"/auth"},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/users/me", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, state.invoked, "downstream handler must not run")
}

func TestRequestFilterTamperedToken(t *testing.T) {
	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		PublicPaths: []string{"/auth"},
	})

	token := issueToken(t, "user")
	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token+"tampered")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, state.invoked)
}

func TestRequestFilterExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := gatekeeper.NewTokenService([]byte("test-signing-key"), time.Hour, "gatekeeper-test", nil).
		WithTimeFunc(func() time.Time { return past })

	token, err := issuer.Generate(tokenIdentity{username: "alice"})
	require.NoError(t, err)

	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		PublicPaths: []string{"/auth"},
	})

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, state.invoked)
}

func TestRequestFilterInstallsIdentityWithDirectoryRoles(t *testing.T) {
	// token embeds a stale role set; the filter must prefer the directory's
	roles := &stubRoleSource{roles: map[string][]string{"alice": {"admin", "auditor"}}}

	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		Roles:       roles,
		PublicPaths: []string{"/auth"},
	})

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, "user"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, state.identity)
	assert.Equal(t, "alice", state.identity.Subject)
	assert.Equal(t, []string{"admin", "auditor"}, state.identity.Roles)

	require.NotNil(t, state.fromCtx, "identity propagates to the std context")
	assert.Equal(t, state.identity, state.fromCtx)
}

func TestRequestFilterEmbeddedRolesWithoutRoleSource(t *testing.T) {
	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		PublicPaths: []string{"/auth"},
	})

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, "user", "user"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, state.identity)
	assert.Equal(t, []string{"user"}, state.identity.Roles)
}

func TestRequestFilterDirectoryFailure(t *testing.T) {
	roles := &stubRoleSource{err: goerrors.New("directory offline", goerrors.CategoryInternal)}

	app, state := newApp(requestauth.Config{
		Validator:   newTokenService(),
		Roles:       roles,
		PublicPaths: []string{"/auth"},
	})

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, "user"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, "directory I/O failure is not an auth failure")
	assert.False(t, state.invoked)
}

func TestRequestFilterIdempotent(t *testing.T) {
	roles := &stubRoleSource{roles: map[string][]string{"alice": {"admin"}}}
	cfg := requestauth.Config{
		Validator:   newTokenService(),
		Roles:       roles,
		PublicPaths: []string{"/auth"},
	}

	state := &appState{}
	app := fiber.New()
	// duplicate filter registration: the second run must be a no-op
	app.Use(requestauth.New(cfg))
	app.Use(requestauth.New(cfg))
	app.Get("/users/me", func(c *fiber.Ctx) error {
		state.invoked = true
		state.identity, _ = gatekeeper.RequestIdentityFromFiber(c, cfg.ContextKey)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, "user"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, state.invoked)
	assert.Equal(t, 1, roles.calls, "roles re-derived exactly once per request")
}
