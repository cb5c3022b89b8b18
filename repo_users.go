package gatekeeper

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistent directory of credentials and role assignments
type Users interface {
	repository.Repository[*User]

	GetByUsername(ctx context.Context, username string) (*User, error)
	RolesFor(ctx context.Context, username string) ([]string, error)
	Register(ctx context.Context, user *User, roles ...string) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ Directory = (*users)(nil)
)

// NewUsersRepository builds the bun-backed directory. It registers the
// user/role join model so relation queries work on any dialect.
func NewUsersRepository(db *bun.DB) Users {
	db.RegisterModel((*UserRole)(nil))

	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByUsername is a case-sensitive exact match lookup
func (r *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	user := new(User)

	err := r.db.NewSelect().
		Model(user).
		Relation("Roles").
		Where("usr.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found", errors.CategoryNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by username")
	}

	return user, nil
}

// RolesFor returns the role set the directory associates with the username,
// duplicates collapsed
func (r *users) RolesFor(ctx context.Context, username string) ([]string, error) {
	var names []string

	err := r.db.NewSelect().
		Model((*Role)(nil)).
		Column("rol.name").
		Join("JOIN user_roles AS usr_rol ON usr_rol.role_id = rol.id").
		Join("JOIN users AS usr ON usr.id = usr_rol.user_id").
		Where("usr.username = ?", username).
		Scan(ctx, &names)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query roles for user")
	}

	return NormalizeRoles(names), nil
}

// Register creates the credential record plus its role assignments. It
// rejects the whole operation with ErrDuplicateUser when the username or
// email already exists, and refuses records without a password hash so
// plaintext can never reach storage.
func (r *users) Register(ctx context.Context, user *User, roles ...string) (*User, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryValidation)
	}

	if user.PasswordHash == "" {
		return nil, errors.New("user must carry a password hash", errors.CategoryValidation)
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*User)(nil)).
			Where("usr.username = ? OR usr.email = ?", user.Username, user.Email).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to check for existing user")
		}

		if exists {
			return ErrDuplicateUser
		}

		if user.ID == uuid.Nil {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			} else {
				user.ID = uuid.New()
			}
		}

		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryConflict, "could not create user")
		}

		for _, name := range NormalizeRoles(roles) {
			role, err := getOrCreateRoleTx(ctx, tx, name)
			if err != nil {
				return err
			}

			assignment := &UserRole{UserID: user.ID, RoleID: role.ID}
			if _, err := tx.NewInsert().Model(assignment).Exec(ctx); err != nil {
				return errors.Wrap(err, errors.CategoryInternal, "could not assign role")
			}
		}

		return nil
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

func getOrCreateRoleTx(ctx context.Context, tx bun.Tx, name string) (*Role, error) {
	role := new(Role)

	err := tx.NewSelect().
		Model(role).
		Where("rol.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err == nil {
		return role, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query role")
	}

	role = &Role{ID: uuid.New(), Name: name}
	if _, err := tx.NewInsert().Model(role).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create role")
	}

	return role, nil
}
