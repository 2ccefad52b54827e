package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/team"
)

// OwnedTeamFinder loads a team only if it belongs to ownerID.
type OwnedTeamFinder interface {
	GetOwned(ctx context.Context, ownerID, id string) (*team.Team, error)
}

// RequireTeamOwner returns middleware that loads the {teamID} route parameter
// as a team owned by the caller and stores it in the context. Teams owned by
// someone else answer 404, the same as missing ones.
func RequireTeamOwner(teams OwnedTeamFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			principal := GetPrincipal(r.Context())
			if principal == nil {
				response.Err(w, http.StatusUnauthorized, response.DomainAuthentication, "MissingToken", "Bearer token is required", requestID)
				return
			}

			teamID := chi.URLParam(r, "teamID")
			if _, err := uuid.Parse(teamID); err != nil {
				response.Err(w, http.StatusBadRequest, response.DomainRequest, "InvalidID", "Invalid team ID format", requestID)
				return
			}

			t, err := teams.GetOwned(r.Context(), principal.UserID, teamID)
			if err != nil {
				if errors.Is(err, team.ErrTeamNotFound) {
					response.Err(w, http.StatusNotFound, response.DomainTeam, "TeamNotFound", "Team not found", requestID)
					return
				}
				slog.Error("failed to load team", "error", err, "requestId", requestID)
				response.Internal(w, requestID)
				return
			}

			ctx := context.WithValue(r.Context(), teamCtxKey, t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTeam retrieves the team loaded by RequireTeamOwner.
func GetTeam(ctx context.Context) *team.Team {
	if t, ok := ctx.Value(teamCtxKey).(*team.Team); ok {
		return t
	}
	return nil
}
