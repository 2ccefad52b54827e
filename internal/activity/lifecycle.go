package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/daap14/teamcap/internal/store"
)

var (
	// ErrAlreadyPaused is returned when pausing a paused activity.
	ErrAlreadyPaused = errors.New("activity already paused")
	// ErrNotPaused is returned when resuming an activity that is not paused.
	ErrNotPaused = errors.New("activity is not paused")
	// ErrAlreadyCompleted is returned when acting on a completed activity.
	ErrAlreadyCompleted = errors.New("activity already completed")
	// ErrNotCompleted is returned when reopening an open activity.
	ErrNotCompleted = errors.New("activity is not completed")
)

// Transition names a lifecycle step.
type Transition string

const (
	Pause    Transition = "pause"
	Resume   Transition = "resume"
	Complete Transition = "complete"
	Reopen   Transition = "reopen"
	Unassign Transition = "unassign"
)

// Plan checks that tr is allowed from a's current state and returns the
// column assignments that perform it.
func Plan(a *Activity, tr Transition, now time.Time) ([]store.Field, error) {
	switch tr {
	case Pause:
		if a.IsCompleted() {
			return nil, ErrAlreadyCompleted
		}
		if a.IsPaused() {
			return nil, ErrAlreadyPaused
		}
		return []store.Field{store.Set("paused_at", store.Time(now))}, nil

	case Resume:
		if !a.IsPaused() {
			return nil, ErrNotPaused
		}
		return []store.Field{store.Set("paused_at", store.Null())}, nil

	case Complete:
		if a.IsCompleted() {
			return nil, ErrAlreadyCompleted
		}
		return []store.Field{
			store.Set("completed_at", store.Time(now)),
			store.Set("paused_at", store.Null()),
		}, nil

	case Reopen:
		if !a.IsCompleted() {
			return nil, ErrNotCompleted
		}
		return []store.Field{store.Set("completed_at", store.Null())}, nil

	case Unassign:
		return []store.Field{
			store.Set("assigned_to", store.Null()),
			store.Set("paused_at", store.Null()),
		}, nil

	default:
		return nil, fmt.Errorf("unknown transition %q", tr)
	}
}

// PlanAssign returns the assignments giving a to userID. The first
// assignment also marks the activity as started.
func PlanAssign(a *Activity, userID string, now time.Time) ([]store.Field, error) {
	if a.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	fields := []store.Field{store.Set("assigned_to", store.String(userID))}
	if a.StartedAt == nil {
		fields = append(fields, store.Set("started_at", store.Time(now)))
	}
	return fields, nil
}
