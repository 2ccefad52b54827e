package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamcap/internal/api/handler"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

const invitationsPattern = "/api/my/teams/{teamID}/invitations"

// ===== owner side =====

func TestTeamInvitationCreate(t *testing.T) {
	t.Parallel()

	owned := sampleTeam(uuid.NewString(), uuid.NewString())
	inviteeID := uuid.NewString()
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, id string) (*user.User, error) { return sampleUser(id, "grace"), nil },
	}
	invs := &mockInvitationRepo{
		createFn: func(_ context.Context, teamID, userID string, role team.Role) (*team.Invitation, error) {
			assert.Equal(t, owned.ID, teamID)
			assert.Equal(t, team.RoleManager, role)
			inv := sampleInvitation(uuid.NewString(), teamID, userID)
			inv.TeamRole = role
			return inv, nil
		},
	}
	h := handler.NewTeamInvitationHandler(invs, users)

	w := serveOwned(ownedBy(owned), http.MethodPost, invitationsPattern, "/api/my/teams/"+owned.ID+"/invitations", owned.OwnerID,
		mustJSON(t, map[string]string{"userId": inviteeID, "teamRole": "manager"}), h.Create)

	require.Equal(t, http.StatusCreated, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, inviteeID, data["userId"])
	assert.Equal(t, "manager", data["teamRole"])
	assert.Equal(t, false, data["accepted"])
	assert.Equal(t, "grace", data["user"].(map[string]interface{})["username"])
}

func TestTeamInvitationCreate_Rejections(t *testing.T) {
	t.Parallel()

	owned := sampleTeam(uuid.NewString(), uuid.NewString())
	knownID := uuid.NewString()

	tests := []struct {
		name       string
		body       map[string]string
		createErr  error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "owner cannot be invited",
			body:       map[string]string{"userId": owned.OwnerID, "teamRole": "member"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ValidationError",
		},
		{
			name:       "unknown role",
			body:       map[string]string{"userId": knownID, "teamRole": "boss"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ValidationError",
		},
		{
			name:       "unknown user",
			body:       map[string]string{"userId": uuid.NewString(), "teamRole": "member"},
			wantStatus: http.StatusNotFound,
			wantCode:   "UserNotFound",
		},
		{
			name:       "already invited",
			body:       map[string]string{"userId": knownID, "teamRole": "member"},
			createErr:  team.ErrInvitationExists,
			wantStatus: http.StatusConflict,
			wantCode:   "InvitationAlreadyExists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &mockUserRepo{
				getByIDFn: func(_ context.Context, id string) (*user.User, error) {
					if id == knownID {
						return sampleUser(id, "grace"), nil
					}
					return nil, user.ErrUserNotFound
				},
			}
			invs := &mockInvitationRepo{
				createFn: func(_ context.Context, teamID, userID string, _ team.Role) (*team.Invitation, error) {
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					return sampleInvitation(uuid.NewString(), teamID, userID), nil
				},
			}
			h := handler.NewTeamInvitationHandler(invs, users)

			w := serveOwned(ownedBy(owned), http.MethodPost, invitationsPattern, "/api/my/teams/"+owned.ID+"/invitations", owned.OwnerID,
				mustJSON(t, tt.body), h.Create)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestTeamInvitationList_IncludesInvitees(t *testing.T) {
	t.Parallel()

	owned := sampleTeam(uuid.NewString(), uuid.NewString())
	invitee := sampleUser(uuid.NewString(), "grace")
	invs := &mockInvitationRepo{
		listByTeamFn: func(_ context.Context, teamID string) ([]team.Invitation, error) {
			return []team.Invitation{*sampleInvitation(uuid.NewString(), teamID, invitee.ID)}, nil
		},
		listInvitedUsersFn: func(context.Context, string) ([]user.User, error) {
			return []user.User{*invitee}, nil
		},
	}
	h := handler.NewTeamInvitationHandler(invs, &mockUserRepo{})

	w := serveOwned(ownedBy(owned), http.MethodGet, invitationsPattern, "/api/my/teams/"+owned.ID+"/invitations", owned.OwnerID, nil, h.List)

	require.Equal(t, http.StatusOK, w.Code)
	items := parseEnvelope(t, w)["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "grace", items[0].(map[string]interface{})["user"].(map[string]interface{})["username"])
}

func TestTeamInvitationDelete_NotFound(t *testing.T) {
	t.Parallel()

	owned := sampleTeam(uuid.NewString(), uuid.NewString())
	h := handler.NewTeamInvitationHandler(&mockInvitationRepo{}, &mockUserRepo{})

	w := serveOwned(ownedBy(owned), http.MethodDelete, invitationsPattern+"/{invitationID}",
		"/api/my/teams/"+owned.ID+"/invitations/"+uuid.NewString(), owned.OwnerID, nil, h.Delete)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "InvitationNotFound", errorCode(t, w))
}

// ===== invitee side =====

func TestMyInvitationList(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	invs := &mockInvitationRepo{
		listByUserFn: func(_ context.Context, id string) ([]team.Invitation, error) {
			return []team.Invitation{
				*sampleInvitation(uuid.NewString(), uuid.NewString(), id),
				*sampleInvitation(uuid.NewString(), uuid.NewString(), id),
			}, nil
		},
	}
	h := handler.NewMyInvitationHandler(invs)

	req, w := makeChiRequest(http.MethodGet, "/api/my/invitations", nil, nil)
	h.List(w, asUser(req, userID))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseEnvelope(t, w)["data"], 2)
}

func TestMyInvitationGet_OtherUsersInvitation(t *testing.T) {
	t.Parallel()

	invID := uuid.NewString()
	h := handler.NewMyInvitationHandler(&mockInvitationRepo{})

	req, w := makeChiRequest(http.MethodGet, "/api/my/invitations/"+invID, nil, map[string]string{"invitationID": invID})
	h.Get(w, asUser(req, uuid.NewString()))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyInvitationAccept(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	invID := uuid.NewString()
	invs := &mockInvitationRepo{
		respondFn: func(_ context.Context, uid, id string, accept bool) (*team.Invitation, error) {
			assert.True(t, accept)
			inv := sampleInvitation(id, uuid.NewString(), uid)
			now := time.Now().UTC()
			inv.AcceptedAt = &now
			return inv, nil
		},
	}
	h := handler.NewMyInvitationHandler(invs)

	req, w := makeChiRequest(http.MethodPost, "/api/my/invitations/"+invID+"/accept", nil, map[string]string{"invitationID": invID})
	h.Accept(w, asUser(req, userID))

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["accepted"])
	assert.Equal(t, false, data["rejected"])
	assert.NotNil(t, data["acceptedAt"])
}

func TestMyInvitationReject_AlreadyAnswered(t *testing.T) {
	t.Parallel()

	invID := uuid.NewString()
	invs := &mockInvitationRepo{
		respondFn: func(_ context.Context, _, _ string, accept bool) (*team.Invitation, error) {
			assert.False(t, accept)
			return nil, team.ErrAlreadyAnswered
		},
	}
	h := handler.NewMyInvitationHandler(invs)

	req, w := makeChiRequest(http.MethodPost, "/api/my/invitations/"+invID+"/reject", nil, map[string]string{"invitationID": invID})
	h.Reject(w, asUser(req, uuid.NewString()))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "InvitationAlreadyAnswered", errorCode(t, w))
}
