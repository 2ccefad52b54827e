package team_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamcap/internal/team"
)

type stubTeams struct {
	team.Repository
	owned   []team.Team
	invited []team.Team
}

func (s *stubTeams) ListOwned(context.Context, string) ([]team.Team, error) { return s.owned, nil }

func (s *stubTeams) ListByInvitee(context.Context, string) ([]team.Team, error) {
	return s.invited, nil
}

type stubInvitations struct {
	team.InvitationRepository
	byTeam map[string]*team.Invitation
	mine   []team.Invitation
	err    error
}

func (s *stubInvitations) FindByTeamAndUser(_ context.Context, teamID, _ string) (*team.Invitation, error) {
	if s.err != nil {
		return nil, s.err
	}
	if inv, ok := s.byTeam[teamID]; ok {
		return inv, nil
	}
	return nil, team.ErrInvitationNotFound
}

func (s *stubInvitations) ListByUser(context.Context, string) ([]team.Invitation, error) {
	return s.mine, nil
}

func answered(teamID string, accepted bool) *team.Invitation {
	now := time.Now()
	inv := &team.Invitation{ID: "inv-" + teamID, TeamID: teamID, UserID: "u1", TeamRole: team.RoleMember}
	if accepted {
		inv.AcceptedAt = &now
	} else {
		inv.RejectedAt = &now
	}
	return inv
}

func TestMembership_AccessOf(t *testing.T) {
	t.Parallel()

	invs := &stubInvitations{byTeam: map[string]*team.Invitation{
		"accepted": answered("accepted", true),
		"rejected": answered("rejected", false),
		"pending":  {ID: "inv-pending", TeamID: "pending", UserID: "u1"},
	}}
	m := team.NewMembership(&stubTeams{}, invs)

	tests := []struct {
		name   string
		team   team.Team
		userID string
		want   team.Access
	}{
		{name: "owner", team: team.Team{ID: "accepted", OwnerID: "u1"}, userID: "u1", want: team.AccessOwner},
		{name: "accepted invitation", team: team.Team{ID: "accepted", OwnerID: "o"}, userID: "u1", want: team.AccessMember},
		{name: "pending invitation", team: team.Team{ID: "pending", OwnerID: "o"}, userID: "u1", want: team.AccessInvited},
		{name: "rejected invitation", team: team.Team{ID: "rejected", OwnerID: "o"}, userID: "u1", want: team.AccessNone},
		{name: "no invitation", team: team.Team{ID: "other", OwnerID: "o"}, userID: "u1", want: team.AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := m.AccessOf(context.Background(), &tt.team, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMembership_AccessOfError(t *testing.T) {
	t.Parallel()

	m := team.NewMembership(&stubTeams{}, &stubInvitations{err: errors.New("db down")})

	_, err := m.AccessOf(context.Background(), &team.Team{ID: "t", OwnerID: "o"}, "u1")
	assert.Error(t, err)

	member, err := m.IsMember(context.Background(), &team.Team{ID: "t", OwnerID: "u1"}, "u1")
	require.NoError(t, err)
	assert.True(t, member)
}

func TestMembership_TeamsOf(t *testing.T) {
	t.Parallel()

	teams := &stubTeams{
		owned:   []team.Team{{ID: "mine", OwnerID: "u1"}},
		invited: []team.Team{{ID: "joined"}, {ID: "declined"}, {ID: "mine", OwnerID: "u1"}},
	}
	invs := &stubInvitations{mine: []team.Invitation{
		*answered("joined", true),
		*answered("declined", false),
	}}
	m := team.NewMembership(teams, invs)

	got, err := m.TeamsOf(context.Background(), "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, tm := range got {
		ids = append(ids, tm.ID)
	}
	assert.Equal(t, []string{"mine", "joined"}, ids)
}

func TestMembership_TeamsOfOwnerOnly(t *testing.T) {
	t.Parallel()

	teams := &stubTeams{owned: []team.Team{{ID: "mine", OwnerID: "u1"}}}
	m := team.NewMembership(teams, &stubInvitations{})

	got, err := m.TeamsOf(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].ID)
}
