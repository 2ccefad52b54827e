// Package sweeper periodically removes backup codes that can no longer be
// used.
package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// CodePurger deletes codes archived before a cutoff.
type CodePurger interface {
	PurgeArchived(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper purges spent and superseded backup codes once they are older than
// the retention period.
type Sweeper struct {
	codes     CodePurger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// New creates a new Sweeper.
func New(codes CodePurger, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		codes:     codes,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs a sweep every interval. It blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("sweeper started", "interval", s.interval.String(), "retention", s.retention.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass and returns the number of codes removed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.retention)

	n, err := s.codes.PurgeArchived(ctx, cutoff)
	if err != nil {
		slog.Error("sweeper: failed to purge backup codes", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("sweeper: purged backup codes", "count", n, "before", cutoff.UTC().Format(time.RFC3339))
	}
	return n
}
