package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/auth"
	"github.com/daap14/teamcap/internal/user"
)

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func toUserResponses(users []user.User) []userResponse {
	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return items
}

// UserHandler handles the caller's own profile and the user directory.
type UserHandler struct {
	users user.Repository
	auth  AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users user.Repository, authSvc AuthService) *UserHandler {
	return &UserHandler{users: users, auth: authSvc}
}

// Me handles GET /api/my/user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	u, err := h.users.GetByID(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "userId", principal.UserID)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// UpdateMe handles PUT /api/my/user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var req validation.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), principal.UserID, user.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
		case errors.Is(err, user.ErrUsernameTaken):
			response.Err(w, http.StatusConflict, response.DomainUser, "UsernameTaken", "Username is already taken", requestID)
		default:
			slog.Error("failed to update user", "error", err, "userId", principal.UserID)
			response.Err(w, http.StatusInternalServerError, response.DomainUser, "UserUpdateFailed", "Failed to update user", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// ChangePassword handles POST /api/my/user/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var req validation.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), principal, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			response.Err(w, http.StatusBadRequest, response.DomainUser, "InvalidPassword", "Current password is incorrect", requestID)
		case errors.Is(err, user.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
		default:
			slog.Error("failed to change password", "error", err, "userId", principal.UserID)
			response.Err(w, http.StatusInternalServerError, response.DomainUser, "UserUpdateFailed", "Failed to change password", requestID)
		}
		return
	}

	response.Message(w, http.StatusOK, "Password changed", requestID)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponses(users), requestID)
}
