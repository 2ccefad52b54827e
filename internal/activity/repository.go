package activity

import (
	"context"
	"errors"

	"github.com/daap14/teamcap/internal/store"
)

// ErrActivityNotFound is returned when an activity record is not found.
var ErrActivityNotFound = errors.New("activity not found")

// NewActivity holds the columns supplied on creation.
type NewActivity struct {
	TeamID          string
	Name            string
	Description     string
	DurationInHours int32
}

// Update holds optional activity changes. Nil fields are left as is.
type Update struct {
	Name            *string
	Description     *string
	DurationInHours *int32
}

// Repository provides operations on the activities table.
type Repository interface {
	Create(ctx context.Context, a NewActivity) (*Activity, error)
	GetByID(ctx context.Context, id string) (*Activity, error)
	GetForTeam(ctx context.Context, teamID, id string) (*Activity, error)
	ListByTeam(ctx context.Context, teamID string) ([]Activity, error)
	ListAssignedTo(ctx context.Context, userID string) ([]Activity, error)
	Update(ctx context.Context, id string, u Update) (*Activity, error)
	Apply(ctx context.Context, id string, fields []store.Field) (*Activity, error)
	Archive(ctx context.Context, teamID, id string) error
}
