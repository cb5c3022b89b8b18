package gatekeeper

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider verifies submitted credentials against the directory. It is
// read-only: verification has no side effects on the stored credential.
type UserProvider struct {
	store  Directory
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Directory) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown usernames and password mismatches both collapse to
// ErrInvalidCredentials so the response cannot be used to enumerate users.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	roles, err := u.store.RolesFor(ctx, user.Username)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve roles during verification")
	}

	return &authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		roles:    NormalizeRoles(roles),
	}, nil
}

// FindIdentityByIdentifier returns the identity for a known username without
// a credential check. Used by enforcement points that already hold a
// validated token.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	roles, err := u.store.RolesFor(ctx, user.Username)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve roles")
	}

	return &authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		roles:    NormalizeRoles(roles),
	}, nil
}

var _ IdentityProvider = (*UserProvider)(nil)

type authIdentity struct {
	id       string
	username string
	email    string
	roles    []string
}

func (a *authIdentity) ID() string       { return a.id }
func (a *authIdentity) Username() string { return a.username }
func (a *authIdentity) Email() string    { return a.email }
func (a *authIdentity) Roles() []string  { return a.roles }
