package team

import (
	"context"
	"errors"
	"fmt"
)

// Access describes how a user relates to a team.
type Access int

const (
	// AccessNone means the user has no relation to the team.
	AccessNone Access = iota
	// AccessInvited means the user holds a pending invitation.
	AccessInvited
	// AccessMember means the user accepted an invitation.
	AccessMember
	// AccessOwner means the user owns the team.
	AccessOwner
)

// Membership answers who belongs to which team. Members are the owner plus
// users who accepted an invitation.
type Membership struct {
	teams       Repository
	invitations InvitationRepository
}

// NewMembership creates a Membership over the given repositories.
func NewMembership(teams Repository, invitations InvitationRepository) *Membership {
	return &Membership{teams: teams, invitations: invitations}
}

// AccessOf reports userID's relation to t. Rejected invitations grant nothing.
func (m *Membership) AccessOf(ctx context.Context, t *Team, userID string) (Access, error) {
	if t.OwnerID == userID {
		return AccessOwner, nil
	}

	inv, err := m.invitations.FindByTeamAndUser(ctx, t.ID, userID)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return AccessNone, nil
		}
		return AccessNone, fmt.Errorf("checking membership: %w", err)
	}

	switch {
	case inv.IsAccepted():
		return AccessMember, nil
	case inv.IsPending():
		return AccessInvited, nil
	default:
		return AccessNone, nil
	}
}

// IsMember reports whether userID owns t or accepted an invitation to it.
func (m *Membership) IsMember(ctx context.Context, t *Team, userID string) (bool, error) {
	access, err := m.AccessOf(ctx, t, userID)
	if err != nil {
		return false, err
	}
	return access >= AccessMember, nil
}

// TeamsOf returns the teams userID owns followed by the teams they joined.
func (m *Membership) TeamsOf(ctx context.Context, userID string) ([]Team, error) {
	owned, err := m.teams.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	invs, err := m.invitations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	accepted := make(map[string]bool, len(invs))
	for i := range invs {
		if invs[i].IsAccepted() {
			accepted[invs[i].TeamID] = true
		}
	}

	if len(accepted) == 0 {
		return owned, nil
	}

	invited, err := m.teams.ListByInvitee(ctx, userID)
	if err != nil {
		return nil, err
	}

	teams := make([]Team, 0, len(owned)+len(accepted))
	teams = append(teams, owned...)
	seen := make(map[string]bool, len(owned))
	for _, t := range owned {
		seen[t.ID] = true
	}
	for _, t := range invited {
		if accepted[t.ID] && !seen[t.ID] {
			seen[t.ID] = true
			teams = append(teams, t)
		}
	}
	return teams, nil
}
