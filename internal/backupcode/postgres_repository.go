package backupcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the backup_codes table.
type PostgresRepository struct {
	codes *store.Table[BackupCode]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{codes: store.NewTable[BackupCode](s, Traits)}
}

// Create inserts a single code for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID, code string) (*BackupCode, error) {
	c, err := r.codes.Insert(ctx,
		store.Set("code", store.String(code)),
		store.Set("user_id", store.String(userID)),
	)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("inserting backup code: %w", err)
	}
	return c, nil
}

// ListActive returns the unarchived codes of userID in issue order.
func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]BackupCode, error) {
	codes, err := r.codes.FindAll(ctx, store.Unarchived, store.Where("user_id", store.String(userID)))
	if err != nil {
		return nil, fmt.Errorf("listing backup codes: %w", err)
	}
	return codes, nil
}

// CodeInUse reports whether any active code equals code.
func (r *PostgresRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	_, err := r.codes.FindOne(ctx, store.Unarchived, store.Where("code", store.String(code)))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking backup code: %w", err)
	}
	return true, nil
}

// FindActive retrieves an unarchived code belonging to userID.
func (r *PostgresRepository) FindActive(ctx context.Context, userID, code string) (*BackupCode, error) {
	c, err := r.codes.FindOne(ctx, store.Unarchived,
		store.Where("user_id", store.String(userID)),
		store.Where("code", store.String(code)),
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("querying backup code: %w", err)
	}
	return c, nil
}

// Archive marks a single code as spent.
func (r *PostgresRepository) Archive(ctx context.Context, id string) error {
	n, err := r.codes.Delete(ctx, store.Where("id", store.String(id)))
	if err != nil {
		return fmt.Errorf("archiving backup code: %w", err)
	}
	if n == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// ArchiveAll archives every active code of userID.
func (r *PostgresRepository) ArchiveAll(ctx context.Context, userID string) (int64, error) {
	n, err := r.codes.Delete(ctx, store.Where("user_id", store.String(userID)))
	if err != nil {
		return 0, fmt.Errorf("archiving backup codes: %w", err)
	}
	return n, nil
}

// PurgeArchived removes spent and superseded codes archived before the cutoff.
func (r *PostgresRepository) PurgeArchived(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.codes.Purge(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purging backup codes: %w", err)
	}
	return n, nil
}
