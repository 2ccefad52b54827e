package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamcap/internal/api/handler"
	"github.com/daap14/teamcap/internal/capability"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

func TestTeamViewList(t *testing.T) {
	t.Parallel()

	membership := &mockMembership{teamsOf: []team.Team{
		*sampleTeam(uuid.NewString(), uuid.NewString()),
		*sampleTeam(uuid.NewString(), uuid.NewString()),
	}}
	h := handler.NewTeamViewHandler(&mockTeamRepo{}, &mockInvitationRepo{}, membership, &mockViewer{})

	req, w := makeChiRequest(http.MethodGet, "/api/teams", nil, nil)
	h.List(w, asUser(req, uuid.NewString()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseEnvelope(t, w)["data"], 2)
}

func TestTeamViewGet_Access(t *testing.T) {
	t.Parallel()

	tm := sampleTeam(uuid.NewString(), uuid.NewString())
	memberID, invitedID, strangerID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	membership := &mockMembership{access: map[string]team.Access{
		tm.OwnerID: team.AccessOwner,
		memberID:   team.AccessMember,
		invitedID:  team.AccessInvited,
	}}
	viewer := &mockViewer{
		viewFn: func(_ context.Context, t *team.Team) (*capability.TeamView, error) {
			owner := sampleUser(t.OwnerID, "ada")
			member := sampleUser(memberID, "grace")
			return &capability.TeamView{
				Team:    t,
				Owner:   owner,
				Members: []user.User{*owner, *member},
				Capabilities: capability.Map{
					"go": {{User: *member, Skill: "Go", Level: 8, Available: true}},
				},
			}, nil
		},
	}
	h := handler.NewTeamViewHandler(ownedBy(tm), &mockInvitationRepo{}, membership, viewer)

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{name: "owner", userID: tm.OwnerID, wantStatus: http.StatusOK},
		{name: "member", userID: memberID, wantStatus: http.StatusOK},
		{name: "pending invitee", userID: invitedID, wantStatus: http.StatusOK},
		{name: "stranger", userID: strangerID, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, w := makeChiRequest(http.MethodGet, "/api/teams/"+tm.ID, nil, map[string]string{"teamID": tm.ID})
			h.Get(w, asUser(req, tt.userID))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTeamViewGet_Body(t *testing.T) {
	t.Parallel()

	tm := sampleTeam(uuid.NewString(), uuid.NewString())
	memberID := uuid.NewString()
	membership := &mockMembership{access: map[string]team.Access{tm.OwnerID: team.AccessOwner}}
	viewer := &mockViewer{
		viewFn: func(_ context.Context, t *team.Team) (*capability.TeamView, error) {
			owner := sampleUser(t.OwnerID, "ada")
			member := sampleUser(memberID, "grace")
			return &capability.TeamView{
				Team:    t,
				Owner:   owner,
				Members: []user.User{*owner, *member},
				Capabilities: capability.Map{
					"go": {
						{User: *member, Skill: "Go", Level: 8, Available: false},
						{User: *owner, Skill: "go", Level: 3, Available: true},
					},
				},
			}, nil
		},
	}
	h := handler.NewTeamViewHandler(ownedBy(tm), &mockInvitationRepo{}, membership, viewer)

	req, w := makeChiRequest(http.MethodGet, "/api/teams/"+tm.ID, nil, map[string]string{"teamID": tm.ID})
	h.Get(w, asUser(req, tm.OwnerID))

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, tm.ID, data["team"].(map[string]interface{})["id"])
	assert.Equal(t, "ada", data["owner"].(map[string]interface{})["username"])
	assert.Len(t, data["members"], 2)
	assert.Empty(t, data["invitations"])
	assert.Empty(t, data["activities"])

	goEntries := data["capabilities"].(map[string]interface{})["go"].([]interface{})
	require.Len(t, goEntries, 2)
	first := goEntries[0].(map[string]interface{})
	assert.Equal(t, float64(8), first["level"])
	assert.Equal(t, false, first["available"])
	assert.Equal(t, "grace", first["user"].(map[string]interface{})["username"])
}

func TestTeamViewGet_UnknownTeam(t *testing.T) {
	t.Parallel()

	h := handler.NewTeamViewHandler(&mockTeamRepo{}, &mockInvitationRepo{}, &mockMembership{}, &mockViewer{})

	id := uuid.NewString()
	req, w := makeChiRequest(http.MethodGet, "/api/teams/"+id, nil, map[string]string{"teamID": id})
	h.Get(w, asUser(req, uuid.NewString()))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TeamNotFound", errorCode(t, w))
}

func TestTeamViewInvitations_MembersOnly(t *testing.T) {
	t.Parallel()

	tm := sampleTeam(uuid.NewString(), uuid.NewString())
	memberID, invitedID := uuid.NewString(), uuid.NewString()
	membership := &mockMembership{access: map[string]team.Access{
		memberID:  team.AccessMember,
		invitedID: team.AccessInvited,
	}}
	invs := &mockInvitationRepo{
		listByTeamFn: func(_ context.Context, teamID string) ([]team.Invitation, error) {
			return []team.Invitation{*sampleInvitation(uuid.NewString(), teamID, invitedID)}, nil
		},
	}
	h := handler.NewTeamViewHandler(ownedBy(tm), invs, membership, &mockViewer{})

	req, w := makeChiRequest(http.MethodGet, "/api/teams/"+tm.ID+"/invitations", nil, map[string]string{"teamID": tm.ID})
	h.Invitations(w, asUser(req, memberID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseEnvelope(t, w)["data"], 1)

	req, w = makeChiRequest(http.MethodGet, "/api/teams/"+tm.ID+"/invitations", nil, map[string]string{"teamID": tm.ID})
	h.Invitations(w, asUser(req, invitedID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
