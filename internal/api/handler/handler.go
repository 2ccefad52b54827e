// Package handler implements the HTTP endpoints. Handlers decode and
// validate the request, call a repository or service, and map domain errors
// onto the response envelope.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/api/validation"
)

const maxBodyBytes = 1 << 20

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		response.Err(w, http.StatusBadRequest, response.DomainRequest, "InvalidJSON", "Request body must be valid JSON", requestID)
		return false
	}

	if c, ok := dst.(validation.Cleaner); ok {
		c.Clean()
	}

	if fieldErrors := validation.Struct(dst); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, response.DomainRequest, "ValidationError", "Input validation failed", fieldErrors, requestID)
		return false
	}

	return true
}

// idParam returns the named route parameter if it is a UUID. Otherwise it
// writes a 400 and returns false.
func idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		response.Err(w, http.StatusBadRequest, response.DomainRequest, "InvalidID", name+" must be a valid UUID", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}
