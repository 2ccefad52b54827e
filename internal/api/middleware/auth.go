package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/teamcap/internal/api/response"
	"github.com/daap14/teamcap/internal/auth"
)

// TokenVerifier resolves a bearer token to a Principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Principal, error)
}

// Authenticate is middleware that reads the Authorization: Bearer header and
// resolves it through verifier. Missing, unknown or expired tokens return 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.Err(w, http.StatusUnauthorized, response.DomainAuthentication, "MissingToken", "Bearer token is required", requestID)
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken):
					response.Err(w, http.StatusUnauthorized, response.DomainAuthentication, "InvalidToken", "Invalid token", requestID)
				case errors.Is(err, auth.ErrTokenExpired):
					response.Err(w, http.StatusUnauthorized, response.DomainAuthentication, "TokenExpired", "Token has expired", requestID)
				default:
					slog.Error("failed to verify token", "error", err, "requestId", requestID)
					response.Internal(w, requestID)
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal retrieves the authenticated Principal from the request context.
func GetPrincipal(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(principalCtxKey).(*auth.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
