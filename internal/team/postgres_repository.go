package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the teams table.
type PostgresRepository struct {
	teams       *store.Table[Team]
	invitations *store.Table[Invitation]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{
		teams:       store.NewTable[Team](s, TeamTraits),
		invitations: store.NewTable[Invitation](s, InvitationTraits),
	}
}

// Create inserts a new team owned by ownerID.
func (r *PostgresRepository) Create(ctx context.Context, ownerID, name, description string) (*Team, error) {
	t, err := r.teams.Insert(ctx,
		store.Set("owner_id", store.String(ownerID)),
		store.Set("team_name", store.String(name)),
		store.Set("team_description", store.String(description)),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting team: %w", err)
	}
	return t, nil
}

// GetByID retrieves an active team by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Team, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)))
}

// GetOwned retrieves an active team by id only if ownerID owns it.
func (r *PostgresRepository) GetOwned(ctx context.Context, ownerID, id string) (*Team, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)), store.Where("owner_id", store.String(ownerID)))
}

// ListOwned retrieves the active teams owned by ownerID.
func (r *PostgresRepository) ListOwned(ctx context.Context, ownerID string) ([]Team, error) {
	teams, err := r.teams.FindAll(ctx, store.Unarchived, store.Where("owner_id", store.String(ownerID)))
	if err != nil {
		return nil, fmt.Errorf("listing owned teams: %w", err)
	}
	return teams, nil
}

// ListByInvitee retrieves the active teams userID holds an invitation to, in
// any state.
func (r *PostgresRepository) ListByInvitee(ctx context.Context, userID string) ([]Team, error) {
	teams, err := r.teams.JoinAll(ctx, r.invitations, store.Unarchived, store.Where("invitations.user_id", store.String(userID)))
	if err != nil {
		return nil, fmt.Errorf("listing invited teams: %w", err)
	}
	return teams, nil
}

// Update applies the non-nil fields of u.
func (r *PostgresRepository) Update(ctx context.Context, id string, u Update) (*Team, error) {
	var fields []store.Field
	if u.Name != nil {
		fields = append(fields, store.Set("team_name", store.String(*u.Name)))
	}
	if u.Description != nil {
		fields = append(fields, store.Set("team_description", store.String(*u.Description)))
	}

	t, err := r.teams.Update(ctx, id, fields...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("updating team: %w", err)
	}
	return t, nil
}

// Archive soft-deletes the team.
func (r *PostgresRepository) Archive(ctx context.Context, id string) error {
	n, err := r.teams.Delete(ctx, store.Where("id", store.String(id)))
	if err != nil {
		return fmt.Errorf("archiving team: %w", err)
	}
	if n == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, opts ...store.QueryOption) (*Team, error) {
	t, err := r.teams.FindOne(ctx, store.Unarchived, opts...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return t, nil
}
