package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
	"github.com/daap14/teamcap/internal/skill"
)

type skillResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	SkillName  string `json:"skillName"`
	SkillLevel int32  `json:"skillLevel"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toSkillResponse(s *skill.UserSkill) skillResponse {
	return skillResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		SkillName:  s.SkillName,
		SkillLevel: s.SkillLevel,
		CreatedAt:  formatTime(s.CreatedAt),
		UpdatedAt:  formatTime(s.UpdatedAt),
	}
}

// SkillHandler handles the caller's skills.
type SkillHandler struct {
	repo skill.Repository
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(repo skill.Repository) *SkillHandler {
	return &SkillHandler{repo: repo}
}

// List handles GET /api/my/skills.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	skills, err := h.repo.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list skills", "error", err)
		response.Internal(w, requestID)
		return
	}

	items := make([]skillResponse, 0, len(skills))
	for i := range skills {
		items = append(items, toSkillResponse(&skills[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// Create handles POST /api/my/skills.
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var req validation.CreateSkillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s, err := h.repo.Create(r.Context(), principal.UserID, req.SkillName, req.SkillLevel)
	if err != nil {
		if errors.Is(err, skill.ErrDuplicateSkill) {
			response.Err(w, http.StatusConflict, response.DomainUserSkill, "UserSkillAlreadyExists", "Skill already exists", requestID)
			return
		}
		slog.Error("failed to create skill", "error", err)
		response.Err(w, http.StatusInternalServerError, response.DomainUserSkill, "UserSkillCreationFailed", "Failed to create skill", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toSkillResponse(s), requestID)
}

// Update handles PUT /api/my/skills/{skillID}.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "skillID")
	if !ok {
		return
	}

	var req validation.UpdateSkillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s, err := h.repo.Update(r.Context(), principal.UserID, id, skill.Update{
		SkillName:  req.SkillName,
		SkillLevel: req.SkillLevel,
	})
	if err != nil {
		switch {
		case errors.Is(err, skill.ErrSkillNotFound):
			response.Err(w, http.StatusNotFound, response.DomainUserSkill, "UserSkillNotFound", "Skill not found", requestID)
		case errors.Is(err, skill.ErrDuplicateSkill):
			response.Err(w, http.StatusConflict, response.DomainUserSkill, "UserSkillAlreadyExists", "Skill already exists", requestID)
		default:
			slog.Error("failed to update skill", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, response.DomainUserSkill, "UserSkillUpdateFailed", "Failed to update skill", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toSkillResponse(s), requestID)
}

// Delete handles DELETE /api/my/skills/{skillID}.
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := idParam(w, r, "skillID")
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), principal.UserID, id); err != nil {
		if errors.Is(err, skill.ErrSkillNotFound) {
			response.Err(w, http.StatusNotFound, response.DomainUserSkill, "UserSkillNotFound", "Skill not found", requestID)
			return
		}
		slog.Error("failed to delete skill", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, response.DomainUserSkill, "UserSkillDeletionFailed", "Failed to delete skill", requestID)
		return
	}

	response.Message(w, http.StatusOK, "Skill deleted", requestID)
}
