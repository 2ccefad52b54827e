package backupcode

import (
	"context"
	"errors"
	"time"
)

// ErrCodeNotFound is returned when no active code matches.
var ErrCodeNotFound = errors.New("backup code not found")

// ErrDuplicateCode is returned when an inserted code collides with an active one.
var ErrDuplicateCode = errors.New("backup code already exists")

// Repository provides operations on the backup_codes table.
type Repository interface {
	Create(ctx context.Context, userID, code string) (*BackupCode, error)
	ListActive(ctx context.Context, userID string) ([]BackupCode, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	FindActive(ctx context.Context, userID, code string) (*BackupCode, error)
	Archive(ctx context.Context, id string) error
	ArchiveAll(ctx context.Context, userID string) (int64, error)
	PurgeArchived(ctx context.Context, before time.Time) (int64, error)
}
