package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/auth"
	"github.com/daap14/teamcap/internal/user"
)

// AuthService is the subset of auth.Service used by the handlers.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.Authentication, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, a auth.Account) (*auth.Registration, error)
	Unregister(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, p *auth.Principal, current, next string) error
}

type sessionResponse struct {
	Token     string  `json:"token"`
	UserID    string  `json:"userId"`
	ExpiresAt *string `json:"expiresAt"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toSessionResponse(a *auth.Authentication) sessionResponse {
	return sessionResponse{
		Token:     a.Token,
		UserID:    a.UserID,
		ExpiresAt: formatTimePtr(a.ExpiresAt),
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

type registrationResponse struct {
	User        userResponse `json:"user"`
	BackupCodes []string     `json:"backupCodes"`
	Restored    bool         `json:"restored"`
}

// AuthHandler handles login, logout, registration and unregistration.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "Invalid username or password", requestID)
			return
		}
		slog.Error("failed to log in", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainAuthentication, "LoginFailed", "Failed to log in", requestID)
		return
	}

	response.Success(w, http.StatusOK, toSessionResponse(session), requestID)
}

// Logout handles DELETE /api/auth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	if err := h.svc.Logout(r.Context(), principal.Token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			response.Err(w, http.StatusUnauthorized, response.DomainAuthentication, "InvalidToken", "Invalid token", requestID)
			return
		}
		slog.Error("failed to log out", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainAuthentication, "LogoutFailed", "Failed to log out", requestID)
		return
	}

	response.Message(w, http.StatusOK, "Logged out", requestID)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reg, err := h.svc.Register(r.Context(), auth.Account{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			response.Err(w, http.StatusConflict, response.DomainUser, "UsernameTaken", "Username is already taken", requestID)
			return
		}
		slog.Error("failed to register user", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainUser, "UserCreationFailed", "Failed to register user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, registrationResponse{
		User:        toUserResponse(reg.User),
		BackupCodes: reg.BackupCodes,
		Restored:    reg.Restored,
	}, requestID)
}

// Unregister handles DELETE /api/auth/register.
func (h *AuthHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	if err := h.svc.Unregister(r.Context(), principal.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainUser, "UserNotFound", "User not found", requestID)
			return
		}
		slog.Error("failed to unregister user", "error", err, "userId", principal.UserID)
		response.Err(w, http.StatusInternalServerError, response.DomainUser, "UserDeletionFailed", "Failed to delete user", requestID)
		return
	}

	response.Message(w, http.StatusOK, "User deleted", requestID)
}
