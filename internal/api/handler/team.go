package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/team"
)

type teamResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func toTeamResponses(teams []team.Team) []teamResponse {
	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i]))
	}
	return items
}

// MyTeamHandler handles CRUD on teams owned by the caller. Routes with a
// {teamID} run behind middleware.RequireTeamOwner.
type MyTeamHandler struct {
	repo team.Repository
}

// NewMyTeamHandler creates a new MyTeamHandler.
func NewMyTeamHandler(repo team.Repository) *MyTeamHandler {
	return &MyTeamHandler{repo: repo}
}

// List handles GET /api/my/teams.
func (h *MyTeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	teams, err := h.repo.ListOwned(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponses(teams), requestID)
}

// Create handles POST /api/my/teams.
func (h *MyTeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var req validation.CreateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.repo.Create(r.Context(), principal.UserID, req.Name, req.Description)
	if err != nil {
		slog.Error("failed to create team", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainTeam, "TeamCreationFailed", "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t), requestID)
}

// Get handles GET /api/my/teams/{teamID}.
func (h *MyTeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, toTeamResponse(middleware.GetTeam(r.Context())), middleware.GetRequestID(r.Context()))
}

// Update handles PUT /api/my/teams/{teamID}.
func (h *MyTeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	var req validation.UpdateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.repo.Update(r.Context(), t.ID, team.Update{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainTeam, "TeamNotFound", "Team not found", requestID)
			return
		}
		slog.Error("failed to update team", "error", err, "id", t.ID)
		response.Err(w, http.StatusInternalServerError, response.DomainTeam, "TeamUpdateFailed", "Failed to update team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(updated), requestID)
}

// Delete handles DELETE /api/my/teams/{teamID}. The team is archived.
func (h *MyTeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	if err := h.repo.Archive(r.Context(), t.ID); err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainTeam, "TeamNotFound", "Team not found", requestID)
			return
		}
		slog.Error("failed to delete team", "error", err, "id", t.ID)
		response.Err(w, http.StatusInternalServerError, response.DomainTeam, "TeamDeletionFailed", "Failed to delete team", requestID)
		return
	}

	response.Message(w, http.StatusOK, "Team deleted", requestID)
}
