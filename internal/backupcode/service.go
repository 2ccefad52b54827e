package backupcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// maxAttempts bounds regeneration of a single colliding code.
const maxAttempts = 8

// ErrGenerationExhausted is returned when no unique code could be drawn.
var ErrGenerationExhausted = errors.New("could not generate a unique backup code")

// Service issues, lists and consumes backup codes.
type Service struct {
	repo   Repository
	tx     store.Transactor
	random io.Reader
	now    func() time.Time
}

// NewService creates a new backup code Service.
func NewService(repo Repository, tx store.Transactor) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		random: rand.Reader,
		now:    time.Now,
	}
}

// List returns the active codes of userID.
func (s *Service) List(ctx context.Context, userID string) ([]BackupCode, error) {
	return s.repo.ListActive(ctx, userID)
}

// Regenerate archives every active code of userID and issues a fresh batch.
// Both steps share one transaction, so on failure the old batch survives.
func (s *Service) Regenerate(ctx context.Context, userID string) ([]BackupCode, error) {
	var batch []BackupCode

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.repo.ArchiveAll(ctx, userID); err != nil {
			return fmt.Errorf("archiving previous codes: %w", err)
		}

		seen := make(map[string]bool, BatchSize)
		batch = make([]BackupCode, 0, BatchSize)
		for len(batch) < BatchSize {
			code, err := s.uniqueCode(ctx, seen)
			if err != nil {
				return err
			}

			c, err := s.repo.Create(ctx, userID, code)
			if err != nil {
				return fmt.Errorf("creating backup code: %w", err)
			}
			seen[code] = true
			batch = append(batch, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// Verify consumes code if it is an active code of userID.
func (s *Service) Verify(ctx context.Context, userID, code string) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		c, err := s.repo.FindActive(ctx, userID, code)
		if err != nil {
			return err
		}
		return s.repo.Archive(ctx, c.ID)
	})
}

// RevokeAll archives every active code of userID.
func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	if _, err := s.repo.ArchiveAll(ctx, userID); err != nil {
		return fmt.Errorf("revoking backup codes: %w", err)
	}
	return nil
}

func (s *Service) uniqueCode(ctx context.Context, seen map[string]bool) (string, error) {
	for range maxAttempts {
		code, err := Generate(s.now(), s.random)
		if err != nil {
			return "", err
		}
		if seen[code] {
			continue
		}

		inUse, err := s.repo.CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}
