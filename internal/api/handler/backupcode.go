package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/backupcode"
)

// BackupCodeService is the subset of backupcode.Service used by the handlers.
type BackupCodeService interface {
	List(ctx context.Context, userID string) ([]backupcode.BackupCode, error)
	Regenerate(ctx context.Context, userID string) ([]backupcode.BackupCode, error)
	Verify(ctx context.Context, userID, code string) error
}

type backupCodeResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	CreatedAt string `json:"createdAt"`
}

func toBackupCodeResponses(codes []backupcode.BackupCode) []backupCodeResponse {
	items := make([]backupCodeResponse, 0, len(codes))
	for _, c := range codes {
		items = append(items, backupCodeResponse{ID: c.ID, Code: c.Code, CreatedAt: formatTime(c.CreatedAt)})
	}
	return items
}

// BackupCodeHandler handles the caller's backup codes.
type BackupCodeHandler struct {
	svc BackupCodeService
}

// NewBackupCodeHandler creates a new BackupCodeHandler.
func NewBackupCodeHandler(svc BackupCodeService) *BackupCodeHandler {
	return &BackupCodeHandler{svc: svc}
}

// List handles GET /api/my/backup-codes.
func (h *BackupCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	codes, err := h.svc.List(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list backup codes", "error", err)
		response.Internal(w, requestID)
		return
	}

	response.Success(w, http.StatusOK, toBackupCodeResponses(codes), requestID)
}

// Generate handles POST /api/my/backup-codes/generate.
func (h *BackupCodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	codes, err := h.svc.Regenerate(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to generate backup codes", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainBackupCode, "CodeCreationFailed", "Failed to generate backup codes", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toBackupCodeResponses(codes), requestID)
}

// Verify handles POST /api/my/backup-codes/verify. A matching code is
// consumed.
func (h *BackupCodeHandler) Verify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var req validation.VerifyCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.Verify(r.Context(), principal.UserID, req.Code); err != nil {
		if errors.Is(err, backupcode.ErrCodeNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainBackupCode, "CodeNotFound", "Backup code not found", requestID)
			return
		}
		slog.Error("failed to verify backup code", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainBackupCode, "CodeVerificationFailed", "Failed to verify backup code", requestID)
		return
	}

	response.Message(w, http.StatusOK, "Backup code accepted", requestID)
}
