package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the authentications table.
type PostgresRepository struct {
	sessions *store.Table[Authentication]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{sessions: store.NewTable[Authentication](s, Traits)}
}

// Create inserts a session for userID. expires_at is stamped by the table.
func (r *PostgresRepository) Create(ctx context.Context, userID, token string) (*Authentication, error) {
	a, err := r.sessions.Insert(ctx,
		store.Set("user_id", store.String(userID)),
		store.Set("token", store.String(token)),
	)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateToken
		}
		return nil, fmt.Errorf("inserting authentication: %w", err)
	}
	return a, nil
}

// GetByToken retrieves the session holding token.
func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*Authentication, error) {
	return r.findOne(ctx, store.Where("token", store.String(token)))
}

// GetByUserID retrieves the most recently refreshed session of userID.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Authentication, error) {
	return r.findOne(ctx, store.Where("user_id", store.String(userID)), store.OrderBy("updated_at DESC"))
}

// ListByUserID returns every session of userID.
func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]Authentication, error) {
	sessions, err := r.sessions.FindAll(ctx, store.Any, store.Where("user_id", store.String(userID)))
	if err != nil {
		return nil, fmt.Errorf("listing authentications: %w", err)
	}
	return sessions, nil
}

// Refresh bumps updated_at and slides expires_at forward.
func (r *PostgresRepository) Refresh(ctx context.Context, id string) (*Authentication, error) {
	a, err := r.sessions.Update(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("refreshing authentication: %w", err)
	}
	return a, nil
}

// DeleteByToken removes the session holding token.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.deleteOne(ctx, store.Where("token", store.String(token)))
}

// DeleteByID removes a session by id.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	return r.deleteOne(ctx, store.Where("id", store.String(id)))
}

// DeleteByUserID removes every session of userID.
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	n, err := r.sessions.Delete(ctx, store.Where("user_id", store.String(userID)))
	if err != nil {
		return 0, fmt.Errorf("deleting authentications: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, opts ...store.QueryOption) (*Authentication, error) {
	a, err := r.sessions.FindOne(ctx, store.Any, opts...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying authentication: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) deleteOne(ctx context.Context, opts ...store.QueryOption) error {
	n, err := r.sessions.Delete(ctx, opts...)
	if err != nil {
		return fmt.Errorf("deleting authentication: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
