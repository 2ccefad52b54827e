package user

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when another active user holds the username.
var ErrUsernameTaken = errors.New("username already taken")

// NewUser holds the columns supplied at registration.
type NewUser struct {
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string
}

// ProfileUpdate holds optional profile changes. Nil fields are left as is.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
}

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, u NewUser) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListArchivedByUsername(ctx context.Context, username string) ([]User, error)
	List(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error)
	SetPasswordHash(ctx context.Context, id, hash string) (*User, error)
	Restore(ctx context.Context, id string, firstName, lastName string) (*User, error)
	Archive(ctx context.Context, id string) error
}
