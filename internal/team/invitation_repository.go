package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daap14/teamcap/internal/store"
	"github.com/daap14/teamcap/internal/user"
)

// PostgresInvitationRepository implements InvitationRepository on the
// invitations table.
type PostgresInvitationRepository struct {
	store       *store.Store
	invitations *store.Table[Invitation]
	users       *store.Table[user.User]
}

// NewInvitationRepository creates a new InvitationRepository backed by the given store.
func NewInvitationRepository(s *store.Store) InvitationRepository {
	return &PostgresInvitationRepository{
		store:       s,
		invitations: store.NewTable[Invitation](s, InvitationTraits),
		users:       user.NewTable(s),
	}
}

// Create invites userID to teamID with the given role.
func (r *PostgresInvitationRepository) Create(ctx context.Context, teamID, userID string, role Role) (*Invitation, error) {
	inv, err := r.invitations.Insert(ctx,
		store.Set("user_id", store.String(userID)),
		store.Set("team_id", store.String(teamID)),
		store.Set("team_role", store.String(string(role))),
	)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, ErrInvitationExists
		case errors.Is(err, store.ErrForeignKey):
			return nil, ErrInviteeNotFound
		}
		return nil, fmt.Errorf("inserting invitation: %w", err)
	}
	return inv, nil
}

// GetByID retrieves an invitation by id.
func (r *PostgresInvitationRepository) GetByID(ctx context.Context, id string) (*Invitation, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)))
}

// GetForUser retrieves an invitation addressed to userID.
func (r *PostgresInvitationRepository) GetForUser(ctx context.Context, userID, id string) (*Invitation, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)), store.Where("user_id", store.String(userID)))
}

// GetForTeam retrieves an invitation belonging to teamID.
func (r *PostgresInvitationRepository) GetForTeam(ctx context.Context, teamID, id string) (*Invitation, error) {
	return r.findOne(ctx, store.Where("id", store.String(id)), store.Where("team_id", store.String(teamID)))
}

// FindByTeamAndUser retrieves the invitation of userID to teamID.
func (r *PostgresInvitationRepository) FindByTeamAndUser(ctx context.Context, teamID, userID string) (*Invitation, error) {
	return r.findOne(ctx, store.Where("team_id", store.String(teamID)), store.Where("user_id", store.String(userID)))
}

// ListByTeam returns the invitations of teamID.
func (r *PostgresInvitationRepository) ListByTeam(ctx context.Context, teamID string) ([]Invitation, error) {
	invs, err := r.invitations.FindAll(ctx, store.Any, store.Where("team_id", store.String(teamID)))
	if err != nil {
		return nil, fmt.Errorf("listing team invitations: %w", err)
	}
	return invs, nil
}

// ListByUser returns the invitations addressed to userID.
func (r *PostgresInvitationRepository) ListByUser(ctx context.Context, userID string) ([]Invitation, error) {
	invs, err := r.invitations.FindAll(ctx, store.Any, store.Where("user_id", store.String(userID)))
	if err != nil {
		return nil, fmt.Errorf("listing user invitations: %w", err)
	}
	return invs, nil
}

// Respond accepts or rejects a pending invitation addressed to userID. The
// write only lands while neither answer is set, so concurrent answers cannot
// both succeed.
func (r *PostgresInvitationRepository) Respond(ctx context.Context, userID, id string, accept bool) (*Invitation, error) {
	var inv *Invitation
	err := r.store.Do(ctx, func(ctx context.Context) error {
		current, err := r.GetForUser(ctx, userID, id)
		if err != nil {
			return err
		}
		if !current.IsPending() {
			return ErrAlreadyAnswered
		}

		column := "rejected_at"
		if accept {
			column = "accepted_at"
		}
		inv, err = r.invitations.UpdateIf(ctx, id,
			[]store.Field{store.Set(column, store.Time(time.Now()))},
			store.Where("user_id", store.String(userID)),
			store.Where("accepted_at", store.Null()),
			store.Where("rejected_at", store.Null()),
		)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrAlreadyAnswered
		case err != nil:
			return fmt.Errorf("answering invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an invitation of teamID.
func (r *PostgresInvitationRepository) Delete(ctx context.Context, teamID, id string) error {
	n, err := r.invitations.Delete(ctx, store.Where("id", store.String(id)), store.Where("team_id", store.String(teamID)))
	if err != nil {
		return fmt.Errorf("deleting invitation: %w", err)
	}
	if n == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// ListInvitedUsers returns the active users holding an invitation to teamID
// in one join query.
func (r *PostgresInvitationRepository) ListInvitedUsers(ctx context.Context, teamID string) ([]user.User, error) {
	users, err := r.users.JoinAll(ctx, r.invitations, store.Unarchived, store.Where("invitations.team_id", store.String(teamID)))
	if err != nil {
		return nil, fmt.Errorf("listing invited users: %w", err)
	}
	return users, nil
}

func (r *PostgresInvitationRepository) findOne(ctx context.Context, opts ...store.QueryOption) (*Invitation, error) {
	inv, err := r.invitations.FindOne(ctx, store.Any, opts...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("querying invitation: %w", err)
	}
	return inv, nil
}
