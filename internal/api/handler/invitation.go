package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

type invitationResponse struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	TeamID     string        `json:"teamId"`
	TeamRole   string        `json:"teamRole"`
	Accepted   bool          `json:"accepted"`
	Rejected   bool          `json:"rejected"`
	AcceptedAt *string       `json:"acceptedAt"`
	RejectedAt *string       `json:"rejectedAt"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
	User       *userResponse `json:"user,omitempty"`
}

func toInvitationResponse(inv *team.Invitation, u *user.User) invitationResponse {
	resp := invitationResponse{
		ID:         inv.ID,
		UserID:     inv.UserID,
		TeamID:     inv.TeamID,
		TeamRole:   string(inv.TeamRole),
		Accepted:   inv.IsAccepted(),
		Rejected:   inv.IsRejected(),
		AcceptedAt: formatTimePtr(inv.AcceptedAt),
		RejectedAt: formatTimePtr(inv.RejectedAt),
		CreatedAt:  formatTime(inv.CreatedAt),
		UpdatedAt:  formatTime(inv.UpdatedAt),
	}
	if u != nil {
		ur := toUserResponse(u)
		resp.User = &ur
	}
	return resp
}

func toInvitationResponses(invs []team.Invitation) []invitationResponse {
	items := make([]invitationResponse, 0, len(invs))
	for i := range invs {
		items = append(items, toInvitationResponse(&invs[i], nil))
	}
	return items
}

// TeamInvitationHandler lets a team owner manage the team's invitations.
// Every route runs behind middleware.RequireTeamOwner.
type TeamInvitationHandler struct {
	invitations team.InvitationRepository
	users       user.Repository
}

// NewTeamInvitationHandler creates a new TeamInvitationHandler.
func NewTeamInvitationHandler(invitations team.InvitationRepository, users user.Repository) *TeamInvitationHandler {
	return &TeamInvitationHandler{invitations: invitations, users: users}
}

// List handles GET /api/my/teams/{teamID}/invitations.
func (h *TeamInvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	items, err := listTeamInvitations(r, h.invitations, t.ID)
	if err != nil {
		slog.Error("failed to list team invitations", "error", err, "teamId", t.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Create handles POST /api/my/teams/{teamID}/invitations.
func (h *TeamInvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	var req validation.CreateInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.UserID == t.OwnerID {
		response.ErrWithDetails(w, http.StatusBadRequest, response.DomainRequest, "ValidationError", "Input validation failed",
			[]validation.FieldError{{Field: "userId", Message: "the team owner cannot be invited"}}, requestID)
		return
	}

	invitee, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
			return
		}
		slog.Error("failed to look up invitee", "error", err)
		response.Internal(w, requestID)
		return
	}

	inv, err := h.invitations.Create(r.Context(), t.ID, invitee.ID, team.Role(req.TeamRole))
	if err != nil {
		switch {
		case errors.Is(err, team.ErrInvitationExists):
			response.Err(w, http.StatusConflict, response.DomainInvitation, "InvitationAlreadyExists", "User is already invited to this team", requestID)
		case errors.Is(err, team.ErrInviteeNotFound):
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
		default:
			slog.Error("failed to create invitation", "error", err, "teamId", t.ID)
			response.Err(w, http.StatusInternalServerError, response.DomainInvitation, "InvitationCreationFailed", "Failed to create invitation", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toInvitationResponse(inv, invitee), requestID)
}

// Delete handles DELETE /api/my/teams/{teamID}/invitations/{invitationID}.
func (h *TeamInvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	id, ok := idParam(w, r, "invitationID")
	if !ok {
		return
	}

	if err := h.invitations.Delete(r.Context(), t.ID, id); err != nil {
		if errors.Is(err, team.ErrInvitationNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainInvitation, "InvitationNotFound", "Invitation not found", requestID)
			return
		}
		slog.Error("failed to delete invitation", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, response.DomainInvitation, "InvitationDeletionFailed", "Failed to delete invitation", requestID)
		return
	}

	response.Message(w, http.StatusOK, "Invitation deleted", requestID)
}

// listTeamInvitations pairs each invitation of teamID with its invitee.
func listTeamInvitations(r *http.Request, invitations team.InvitationRepository, teamID string) ([]invitationResponse, error) {
	invs, err := invitations.ListByTeam(r.Context(), teamID)
	if err != nil {
		return nil, err
	}
	users, err := invitations.ListInvitedUsers(r.Context(), teamID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*user.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	items := make([]invitationResponse, 0, len(invs))
	for i := range invs {
		items = append(items, toInvitationResponse(&invs[i], byID[invs[i].UserID]))
	}
	return items, nil
}

// MyInvitationHandler handles invitations addressed to the caller.
type MyInvitationHandler struct {
	invitations team.InvitationRepository
}

// NewMyInvitationHandler creates a new MyInvitationHandler.
func NewMyInvitationHandler(invitations team.InvitationRepository) *MyInvitationHandler {
	return &MyInvitationHandler{invitations: invitations}
}

// List handles GET /api/my/invitations.
func (h *MyInvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	invs, err := h.invitations.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list invitations", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toInvitationResponses(invs), requestID)
}

// Get handles GET /api/my/invitations/{invitationID}.
func (h *MyInvitationHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "invitationID")
	if !ok {
		return
	}

	inv, err := h.invitations.GetForUser(r.Context(), principal.UserID, id)
	if err != nil {
		if errors.Is(err, team.ErrInvitationNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainInvitation, "InvitationNotFound", "Invitation not found", requestID)
			return
		}
		slog.Error("failed to get invitation", "error", err, "id", id)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toInvitationResponse(inv, nil), requestID)
}

// Accept handles POST /api/my/invitations/{invitationID}/accept.
func (h *MyInvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

// Reject handles POST /api/my/invitations/{invitationID}/reject.
func (h *MyInvitationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *MyInvitationHandler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "invitationID")
	if !ok {
		return
	}

	inv, err := h.invitations.Respond(r.Context(), principal.UserID, id, accept)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrInvitationNotFound):
			response.Err(w, http.StatusNotFound, response.DomainInvitation, "InvitationNotFound", "Invitation not found", requestID)
		case errors.Is(err, team.ErrAlreadyAnswered):
			response.Err(w, http.StatusConflict, response.DomainInvitation, "InvitationAlreadyAnswered", "Invitation was already answered", requestID)
		default:
			slog.Error("failed to answer invitation", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, response.DomainInvitation, "InvitationUpdateFailed", "Failed to answer invitation", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toInvitationResponse(inv, nil), requestID)
}
