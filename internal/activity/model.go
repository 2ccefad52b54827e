package activity

import (
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// Activity is a unit of work inside a team.
type Activity struct {
	ID              string     `db:"id"`
	Name            string     `db:"activity_name"`
	Description     string     `db:"activity_description"`
	AssignedTo      *string    `db:"assigned_to"`
	TeamID          string     `db:"team_id"`
	DurationInHours int32      `db:"duration_in_hours"`
	StartedAt       *time.Time `db:"started_at"`
	PausedAt        *time.Time `db:"paused_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	ArchivedAt      *time.Time `db:"archived_at"`
}

// IsCompleted reports whether the activity has been completed.
func (a *Activity) IsCompleted() bool { return a.CompletedAt != nil }

// IsPaused reports whether the activity is paused.
func (a *Activity) IsPaused() bool { return a.PausedAt != nil }

// IsAssignedTo reports whether userID is the assignee.
func (a *Activity) IsAssignedTo(userID string) bool {
	return a.AssignedTo != nil && *a.AssignedTo == userID
}

// Traits for the activities table.
var Traits = store.Traits{HasID: true, Archivable: true, Creatable: true, Updatable: true}
