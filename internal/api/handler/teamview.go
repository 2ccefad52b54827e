package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/capability"
	"github.com/daap14/teamcap/internal/team"
)

// TeamViewer assembles the full view of a team.
type TeamViewer interface {
	TeamView(ctx context.Context, t *team.Team) (*capability.TeamView, error)
}

type capabilityResponse struct {
	User      userResponse `json:"user"`
	Skill     string       `json:"skill"`
	Level     int32        `json:"level"`
	Available bool         `json:"available"`
}

type teamViewResponse struct {
	Team         teamResponse                    `json:"team"`
	Owner        *userResponse                   `json:"owner"`
	Members      []userResponse                  `json:"members"`
	Invitations  []invitationResponse            `json:"invitations"`
	Activities   []activityResponse              `json:"activities"`
	Capabilities map[string][]capabilityResponse `json:"capabilities"`
}

func toTeamViewResponse(v *capability.TeamView) teamViewResponse {
	resp := teamViewResponse{
		Team:         toTeamResponse(v.Team),
		Members:      toUserResponses(v.Members),
		Invitations:  make([]invitationResponse, 0, len(v.Invitations)),
		Activities:   toActivityResponses(v.Activities),
		Capabilities: make(map[string][]capabilityResponse, len(v.Capabilities)),
	}
	if v.Owner != nil {
		owner := toUserResponse(v.Owner)
		resp.Owner = &owner
	}
	for i := range v.Invitations {
		resp.Invitations = append(resp.Invitations, toInvitationResponse(&v.Invitations[i].Invitation, v.Invitations[i].User))
	}
	for name, entries := range v.Capabilities {
		items := make([]capabilityResponse, 0, len(entries))
		for i := range entries {
			items = append(items, capabilityResponse{
				User:      toUserResponse(&entries[i].User),
				Skill:     entries[i].Skill,
				Level:     entries[i].Level,
				Available: entries[i].Available,
			})
		}
		resp.Capabilities[name] = items
	}
	return resp
}

// TeamViewHandler serves teams to their owner, members and, for the team
// view, pending invitees. Anyone else gets 404.
type TeamViewHandler struct {
	teams       team.Repository
	invitations team.InvitationRepository
	membership  MembershipChecker
	viewer      TeamViewer
}

// NewTeamViewHandler creates a new TeamViewHandler.
func NewTeamViewHandler(teams team.Repository, invitations team.InvitationRepository, membership MembershipChecker, viewer TeamViewer) *TeamViewHandler {
	return &TeamViewHandler{teams: teams, invitations: invitations, membership: membership, viewer: viewer}
}

// List handles GET /api/teams.
func (h *TeamViewHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	teams, err := h.membership.TeamsOf(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponses(teams), requestID)
}

// Get handles GET /api/teams/{teamID}.
func (h *TeamViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	t, ok := h.authorize(w, r, team.AccessInvited)
	if !ok {
		return
	}

	view, err := h.viewer.TeamView(r.Context(), t)
	if err != nil {
		slog.Error("failed to build team view", "error", err, "teamId", t.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamViewResponse(view), requestID)
}

// Invitations handles GET /api/teams/{teamID}/invitations.
func (h *TeamViewHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	t, ok := h.authorize(w, r, team.AccessMember)
	if !ok {
		return
	}

	items, err := listTeamInvitations(r, h.invitations, t.ID)
	if err != nil {
		slog.Error("failed to list team invitations", "error", err, "teamId", t.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// authorize loads the {teamID} team and checks the caller has at least min
// access. Insufficient access answers 404 so team ids are not disclosed.
func (h *TeamViewHandler) authorize(w http.ResponseWriter, r *http.Request, min team.Access) (*team.Team, bool) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "teamID")
	if !ok {
		return nil, false
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainTeam, "TeamNotFound", "Team not found", requestID)
			return nil, false
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Internal(w, requestID)
		return nil, false
	}

	access, err := h.membership.AccessOf(r.Context(), t, principal.UserID)
	if err != nil {
		slog.Error("failed to check membership", "error", err, "teamId", id)
		response.Internal(w, requestID)
		return nil, false
	}
	if access < min {
		response.Err(w, http.StatusNotFound, response.DomainTeam, "TeamNotFound", "Team not found", requestID)
		return nil, false
	}

	return t, true
}
