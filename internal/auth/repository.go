package auth

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when no Authentication row matches.
var ErrSessionNotFound = errors.New("session not found")

// ErrDuplicateToken is returned when a generated token collides with an
// existing one.
var ErrDuplicateToken = errors.New("token already exists")

// Repository provides operations on the authentications table.
type Repository interface {
	Create(ctx context.Context, userID, token string) (*Authentication, error)
	GetByToken(ctx context.Context, token string) (*Authentication, error)
	GetByUserID(ctx context.Context, userID string) (*Authentication, error)
	ListByUserID(ctx context.Context, userID string) ([]Authentication, error)
	Refresh(ctx context.Context, id string) (*Authentication, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
