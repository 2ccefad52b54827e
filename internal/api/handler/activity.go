package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/team"
)

// ActivityService is the subset of activity.Service used by the handlers.
type ActivityService interface {
	Transition(ctx context.Context, a *activity.Activity, tr activity.Transition) (*activity.Activity, error)
	Assign(ctx context.Context, a *activity.Activity, userID string) (*activity.Activity, error)
}

// MembershipChecker answers how a user relates to a team.
type MembershipChecker interface {
	AccessOf(ctx context.Context, t *team.Team, userID string) (team.Access, error)
	TeamsOf(ctx context.Context, userID string) ([]team.Team, error)
}

type activityResponse struct {
	ID              string  `json:"id"`
	TeamID          string  `json:"teamId"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	AssignedTo      *string `json:"assignedTo"`
	DurationInHours int32   `json:"durationInHours"`
	Status          string  `json:"status"`
	StartedAt       *string `json:"startedAt"`
	PausedAt        *string `json:"pausedAt"`
	CompletedAt     *string `json:"completedAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

func activityStatus(a *activity.Activity) string {
	switch {
	case a.IsCompleted():
		return "completed"
	case a.IsPaused():
		return "paused"
	case a.AssignedTo != nil:
		return "assigned"
	}
	return "unassigned"
}

func toActivityResponse(a *activity.Activity) activityResponse {
	return activityResponse{
		ID:              a.ID,
		TeamID:          a.TeamID,
		Name:            a.Name,
		Description:     a.Description,
		AssignedTo:      a.AssignedTo,
		DurationInHours: a.DurationInHours,
		Status:          activityStatus(a),
		StartedAt:       formatTimePtr(a.StartedAt),
		PausedAt:        formatTimePtr(a.PausedAt),
		CompletedAt:     formatTimePtr(a.CompletedAt),
		CreatedAt:       formatTime(a.CreatedAt),
		UpdatedAt:       formatTime(a.UpdatedAt),
	}
}

func toActivityResponses(activities []activity.Activity) []activityResponse {
	items := make([]activityResponse, 0, len(activities))
	for i := range activities {
		items = append(items, toActivityResponse(&activities[i]))
	}
	return items
}

// writeActivityError maps activity errors onto responses. Unexpected errors
// are logged with op and answered with failCode.
func writeActivityError(w http.ResponseWriter, err error, requestID, op, failCode string) {
	status, code, message := http.StatusInternalServerError, failCode, "Failed to "+op
	switch {
	case errors.Is(err, activity.ErrActivityNotFound):
		status, code, message = http.StatusNotFound, "ActivityNotFound", "Activity not found"
	case errors.Is(err, activity.ErrAlreadyPaused):
		status, code, message = http.StatusConflict, "ActivityAlreadyPaused", "Activity is already paused"
	case errors.Is(err, activity.ErrNotPaused):
		status, code, message = http.StatusConflict, "ActivityNotPaused", "Activity is not paused"
	case errors.Is(err, activity.ErrAlreadyCompleted):
		status, code, message = http.StatusConflict, "ActivityAlreadyCompleted", "Activity is already completed"
	case errors.Is(err, activity.ErrNotCompleted):
		status, code, message = http.StatusConflict, "ActivityNotCompleted", "Activity is not completed"
	default:
		slog.Error("failed to "+op, "error", err)
	}
	response.Err(w, status, response.DomainActivity, code, message, requestID)
}

// TeamActivityHandler lets a team owner manage the team's activities. Every
// route runs behind middleware.RequireTeamOwner.
type TeamActivityHandler struct {
	repo       activity.Repository
	svc        ActivityService
	membership MembershipChecker
}

// NewTeamActivityHandler creates a new TeamActivityHandler.
func NewTeamActivityHandler(repo activity.Repository, svc ActivityService, membership MembershipChecker) *TeamActivityHandler {
	return &TeamActivityHandler{repo: repo, svc: svc, membership: membership}
}

// List handles GET /api/my/teams/{teamID}/activities.
func (h *TeamActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	activities, err := h.repo.ListByTeam(r.Context(), t.ID)
	if err != nil {
		slog.Error("failed to list activities", "error", err, "teamId", t.ID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toActivityResponses(activities), requestID)
}

// Create handles POST /api/my/teams/{teamID}/activities.
func (h *TeamActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	var req validation.CreateActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	a, err := h.repo.Create(r.Context(), activity.NewActivity{
		TeamID:          t.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationInHours: req.DurationInHours,
	})
	if err != nil {
		slog.Error("failed to create activity", "error", err, "teamId", t.ID)
		response.Err(w, http.StatusInternalServerError, response.DomainActivity, "ActivityCreationFailed", "Failed to create activity", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toActivityResponse(a), requestID)
}

// Get handles GET /api/my/teams/{teamID}/activities/{activityID}.
func (h *TeamActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, toActivityResponse(a), middleware.GetRequestID(r.Context()))
}

// Update handles PUT /api/my/teams/{teamID}/activities/{activityID}.
func (h *TeamActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	a, ok := h.load(w, r)
	if !ok {
		return
	}

	var req validation.UpdateActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.repo.Update(r.Context(), a.ID, activity.Update{
		Name:            req.Name,
		Description:     req.Description,
		DurationInHours: req.DurationInHours,
	})
	if err != nil {
		writeActivityError(w, err, requestID, "update activity", "ActivityUpdateFailed")
		return
	}

	response.Success(w, http.StatusOK, toActivityResponse(updated), requestID)
}

// Delete handles DELETE /api/my/teams/{teamID}/activities/{activityID}.
func (h *TeamActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	id, ok := idParam(w, r, "activityID")
	if !ok {
		return
	}

	if err := h.repo.Archive(r.Context(), t.ID, id); err != nil {
		writeActivityError(w, err, requestID, "delete activity", "ActivityDeletionFailed")
		return
	}

	response.Message(w, http.StatusOK, "Activity deleted", requestID)
}

// Assign handles POST .../activities/{activityID}/assign. The assignee must
// be a team member.
func (h *TeamActivityHandler) Assign(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	a, ok := h.load(w, r)
	if !ok {
		return
	}

	var req validation.AssignActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	access, err := h.membership.AccessOf(r.Context(), t, req.UserID)
	if err != nil {
		slog.Error("failed to check membership", "error", err, "teamId", t.ID)
		response.Internal(w, requestID)
		return
	}
	if access < team.AccessMember {
		response.Err(w, http.StatusBadRequest, response.DomainActivity, "AssigneeNotMember", "Assignee is not a member of the team", requestID)
		return
	}

	updated, err := h.svc.Assign(r.Context(), a, req.UserID)
	if err != nil {
		writeActivityError(w, err, requestID, "assign activity", "ActivityUpdateFailed")
		return
	}

	response.Success(w, http.StatusOK, toActivityResponse(updated), requestID)
}

// Transition returns a handler applying tr to the addressed activity.
func (h *TeamActivityHandler) Transition(tr activity.Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())

		a, ok := h.load(w, r)
		if !ok {
			return
		}

		updated, err := h.svc.Transition(r.Context(), a, tr)
		if err != nil {
			writeActivityError(w, err, requestID, string(tr)+" activity", "ActivityUpdateFailed")
			return
		}

		response.Success(w, http.StatusOK, toActivityResponse(updated), requestID)
	}
}

func (h *TeamActivityHandler) load(w http.ResponseWriter, r *http.Request) (*activity.Activity, bool) {
	requestID := middleware.GetRequestID(r.Context())
	t := middleware.GetTeam(r.Context())

	id, ok := idParam(w, r, "activityID")
	if !ok {
		return nil, false
	}

	a, err := h.repo.GetForTeam(r.Context(), t.ID, id)
	if err != nil {
		writeActivityError(w, err, requestID, "get activity", "ActivityNotFound")
		return nil, false
	}
	return a, true
}

// MyActivityHandler handles activities assigned to the caller.
type MyActivityHandler struct {
	repo activity.Repository
	svc  ActivityService
}

// NewMyActivityHandler creates a new MyActivityHandler.
func NewMyActivityHandler(repo activity.Repository, svc ActivityService) *MyActivityHandler {
	return &MyActivityHandler{repo: repo, svc: svc}
}

// List handles GET /api/my/activities.
func (h *MyActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	activities, err := h.repo.ListAssignedTo(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list assigned activities", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toActivityResponses(activities), requestID)
}

// Get handles GET /api/my/activities/{activityID}.
func (h *MyActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, toActivityResponse(a), middleware.GetRequestID(r.Context()))
}

// Transition returns a handler applying tr to an activity assigned to the
// caller.
func (h *MyActivityHandler) Transition(tr activity.Transition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())

		a, ok := h.load(w, r)
		if !ok {
			return
		}

		updated, err := h.svc.Transition(r.Context(), a, tr)
		if err != nil {
			writeActivityError(w, err, requestID, string(tr)+" activity", "ActivityUpdateFailed")
			return
		}

		response.Success(w, http.StatusOK, toActivityResponse(updated), requestID)
	}
}

// load fetches the addressed activity and answers 403 when it is assigned
// to someone else.
func (h *MyActivityHandler) load(w http.ResponseWriter, r *http.Request) (*activity.Activity, bool) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "activityID")
	if !ok {
		return nil, false
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeActivityError(w, err, requestID, "get activity", "ActivityNotFound")
		return nil, false
	}

	if !a.IsAssignedTo(principal.UserID) {
		response.Err(w, http.StatusForbidden, response.DomainActivity, "ActivityNotAssignedToUser", "Activity is not assigned to you", requestID)
		return nil, false
	}
	return a, true
}
