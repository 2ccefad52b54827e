package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/skill"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

// InvitationView pairs an invitation with its invitee.
type InvitationView struct {
	Invitation team.Invitation
	User       *user.User
}

// TeamView is everything shown on a team page.
type TeamView struct {
	Team         *team.Team
	Owner        *user.User
	Members      []user.User
	Invitations  []InvitationView
	Activities   []activity.Activity
	Capabilities Map
}

// Service assembles team views.
type Service struct {
	users       user.Repository
	invitations team.InvitationRepository
	skills      skill.Repository
	activities  activity.Repository
}

// NewService creates a new capability Service.
func NewService(users user.Repository, invitations team.InvitationRepository, skills skill.Repository, activities activity.Repository) *Service {
	return &Service{
		users:       users,
		invitations: invitations,
		skills:      skills,
		activities:  activities,
	}
}

// TeamView loads t's invitations, members, activities and capability map.
// Invitees are fetched with a single join; skills are fetched per member.
func (s *Service) TeamView(ctx context.Context, t *team.Team) (*TeamView, error) {
	view := &TeamView{Team: t}

	owner, err := s.users.GetByID(ctx, t.OwnerID)
	switch {
	case err == nil:
		view.Owner = owner
		view.Members = append(view.Members, *owner)
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, fmt.Errorf("loading team owner: %w", err)
	}

	invs, err := s.invitations.ListByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	invited, err := s.invitations.ListInvitedUsers(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*user.User, len(invited))
	for i := range invited {
		byID[invited[i].ID] = &invited[i]
	}

	view.Invitations = make([]InvitationView, 0, len(invs))
	for _, inv := range invs {
		u := byID[inv.UserID]
		view.Invitations = append(view.Invitations, InvitationView{Invitation: inv, User: u})
		if u != nil && inv.IsAccepted() && u.ID != t.OwnerID {
			view.Members = append(view.Members, *u)
		}
	}

	view.Activities, err = s.activities.ListByTeam(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	skills := make(map[string][]skill.UserSkill, len(view.Members))
	for _, m := range view.Members {
		list, err := s.skills.ListByUser(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("loading skills of %s: %w", m.ID, err)
		}
		skills[m.ID] = list
	}

	view.Capabilities = Build(view.Members, skills, view.Activities)
	if view.Members == nil {
		view.Members = []user.User{}
	}
	return view, nil
}
