package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Domain groups error codes by the resource they concern.
type Domain string

const (
	DomainAuthentication Domain = "Authentication"
	DomainUser           Domain = "User"
	DomainTeam           Domain = "Team"
	DomainInvitation     Domain = "Invitation"
	DomainActivity       Domain = "Activity"
	DomainBackupCode     Domain = "BackupCode"
	DomainUserSkill      Domain = "UserSkill"
	DomainRequest        Domain = "Request"
)

// Meta holds metadata for every API response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Error represents a structured API error.
type Error struct {
	Domain  Domain `json:"domain"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the standard API response wrapper.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Error   *Error `json:"error"`
	Meta    Meta   `json:"meta"`
}

// NewMeta creates a Meta with the current timestamp. A new UUID is used when
// requestID is empty.
func NewMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// JSON writes a JSON response with the given status code and envelope.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	JSON(w, status, Envelope{Data: data, Meta: NewMeta(requestID)})
}

// Message writes a successful response that carries only a message.
func Message(w http.ResponseWriter, status int, message string, requestID string) {
	JSON(w, status, Envelope{Message: message, Meta: NewMeta(requestID)})
}

// Err writes an error JSON response.
func Err(w http.ResponseWriter, status int, domain Domain, code string, message string, requestID string) {
	JSON(w, status, Envelope{
		Message: message,
		Error:   &Error{Domain: domain, Code: code},
		Meta:    NewMeta(requestID),
	})
}

// ErrWithDetails writes an error JSON response with additional details.
func ErrWithDetails(w http.ResponseWriter, status int, domain Domain, code string, message string, details any, requestID string) {
	JSON(w, status, Envelope{
		Message: message,
		Error:   &Error{Domain: domain, Code: code, Details: details},
		Meta:    NewMeta(requestID),
	})
}

// Internal writes the generic 500 response.
func Internal(w http.ResponseWriter, requestID string) {
	Err(w, http.StatusInternalServerError, DomainRequest, "Internal", "An unexpected error occurred", requestID)
}
