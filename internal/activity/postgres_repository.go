package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the activities table.
type PostgresRepository struct {
	activities *store.Table[Activity]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{activities: store.NewTable[Activity](s, Traits)}
}

// Create inserts a new unassigned activity.
func (r *PostgresRepository) Create(ctx context.Context, a NewActivity) (*Activity, error) {
	created, err := r.activities.Insert(ctx,
		store.Set("activity_name", store.String(a.Name)),
		store.Set("activity_description", store.String(a.Description)),
		store.Set("team_id", store.String(a.TeamID)),
		store.Set("duration_in_hours", store.Int(a.DurationInHours)),
		store.Set("assigned_to", store.Null()),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting activity: %w", err)
	}
	return created, nil
}

// GetByID retrieves an active activity by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Activity, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)))
}

// GetForTeam retrieves an active activity belonging to teamID.
func (r *PostgresRepository) GetForTeam(ctx context.Context, teamID, id string) (*Activity, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)), store.Where("team_id", store.String(teamID)))
}

// ListByTeam returns the active activities of teamID.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID string) ([]Activity, error) {
	activities, err := r.activities.FindAll(ctx, store.Unarchived, store.Where("team_id", store.String(teamID)))
	if err != nil {
		return nil, fmt.Errorf("listing team activities: %w", err)
	}
	return activities, nil
}

// ListAssignedTo returns the active activities assigned to userID.
func (r *PostgresRepository) ListAssignedTo(ctx context.Context, userID string) ([]Activity, error) {
	activities, err := r.activities.FindAll(ctx, store.Unarchived, store.Where("assigned_to", store.String(userID)))
	if err != nil {
		return nil, fmt.Errorf("listing assigned activities: %w", err)
	}
	return activities, nil
}

// Update applies the non-nil fields of u.
func (r *PostgresRepository) Update(ctx context.Context, id string, u Update) (*Activity, error) {
	var fields []store.Field
	if u.Name != nil {
		fields = append(fields, store.Set("activity_name", store.String(*u.Name)))
	}
	if u.Description != nil {
		fields = append(fields, store.Set("activity_description", store.String(*u.Description)))
	}
	if u.DurationInHours != nil {
		fields = append(fields, store.Set("duration_in_hours", store.Int(*u.DurationInHours)))
	}
	return r.Apply(ctx, id, fields)
}

// Apply writes precomputed column assignments, typically from Plan.
func (r *PostgresRepository) Apply(ctx context.Context, id string, fields []store.Field) (*Activity, error) {
	a, err := r.activities.Update(ctx, id, fields...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	return a, nil
}

// Archive soft-deletes an activity of teamID.
func (r *PostgresRepository) Archive(ctx context.Context, teamID, id string) error {
	n, err := r.activities.Delete(ctx, store.Where("id", store.String(id)), store.Where("team_id", store.String(teamID)))
	if err != nil {
		return fmt.Errorf("archiving activity: %w", err)
	}
	if n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, opts ...store.QueryOption) (*Activity, error) {
	a, err := r.activities.FindOne(ctx, store.Unarchived, opts...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	return a, nil
}
