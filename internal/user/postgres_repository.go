package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the users table.
type PostgresRepository struct {
	users *store.Table[User]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{users: NewTable(s)}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, u NewUser) (*User, error) {
	created, err := r.users.Insert(ctx,
		store.Set("first_name", store.String(u.FirstName)),
		store.Set("last_name", store.String(u.LastName)),
		store.Set("username", store.String(u.Username)),
		store.Set("password_hash", store.String(u.PasswordHash)),
	)
	if err != nil {
		return nil, mapError("inserting user", err)
	}
	return created, nil
}

// GetByID retrieves an active user by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := r.users.FindOne(ctx, store.Unarchived, store.Where("id", store.String(id)))
	if err != nil {
		return nil, mapError("querying user", err)
	}
	return u, nil
}

// GetByUsername retrieves an active user by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := r.users.FindOne(ctx, store.Unarchived, store.Where("username", store.String(username)))
	if err != nil {
		return nil, mapError("querying user by username", err)
	}
	return u, nil
}

// ListArchivedByUsername returns archived accounts that used username, most
// recently archived first.
func (r *PostgresRepository) ListArchivedByUsername(ctx context.Context, username string) ([]User, error) {
	users, err := r.users.FindAll(ctx, store.Archived,
		store.Where("username", store.String(username)),
		store.OrderBy("archived_at DESC"),
	)
	if err != nil {
		return nil, fmt.Errorf("listing archived users: %w", err)
	}
	return users, nil
}

// List returns all active users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	users, err := r.users.FindAll(ctx, store.Unarchived)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of p.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error) {
	var fields []store.Field
	if p.FirstName != nil {
		fields = append(fields, store.Set("first_name", store.String(*p.FirstName)))
	}
	if p.LastName != nil {
		fields = append(fields, store.Set("last_name", store.String(*p.LastName)))
	}
	if p.Username != nil {
		fields = append(fields, store.Set("username", store.String(*p.Username)))
	}

	u, err := r.users.Update(ctx, id, fields...)
	if err != nil {
		return nil, mapError("updating user", err)
	}
	return u, nil
}

// SetPasswordHash replaces the stored password hash.
func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id, hash string) (*User, error) {
	u, err := r.users.Update(ctx, id, store.Set("password_hash", store.String(hash)))
	if err != nil {
		return nil, mapError("updating password", err)
	}
	return u, nil
}

// Restore clears archived_at and refreshes the user's names.
func (r *PostgresRepository) Restore(ctx context.Context, id string, firstName, lastName string) (*User, error) {
	u, err := r.users.Update(ctx, id,
		store.Set("archived_at", store.Null()),
		store.Set("first_name", store.String(firstName)),
		store.Set("last_name", store.String(lastName)),
	)
	if err != nil {
		return nil, mapError("restoring user", err)
	}
	return u, nil
}

// Archive soft-deletes the user.
func (r *PostgresRepository) Archive(ctx context.Context, id string) error {
	n, err := r.users.Delete(ctx, store.Where("id", store.String(id)))
	if err != nil {
		return fmt.Errorf("archiving user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrUsernameTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
