package user

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("a user with this username or email already exists")
)

// Repository owns the persistence of User rows.
// Errors other than ErrNotFound and ErrConflict are *core.StoreError.
type Repository interface {
	// QueryAllUsers returns every user, ordered by ID.
	QueryAllUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, filter GetFilter) (User, error)
	// CreateUser assigns a new ID to usr and inserts it.
	CreateUser(ctx context.Context, usr User) (User, error)
	// UpdateUser saves every field of usr but its password.
	UpdateUser(ctx context.Context, usr User) (User, error)
	// UpdatePassword replaces the password of exactly one user.
	UpdatePassword(ctx context.Context, id, hash string) error
}
