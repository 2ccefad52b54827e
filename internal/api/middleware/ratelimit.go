package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/daap14/teamcap/internal/api/response"
)

// RateLimit allows requests per minute per client IP and answers 429 with
// the standard envelope beyond that.
func RateLimit(requests int) func(http.Handler) http.Handler {
	return httprate.Limit(requests, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.Err(w, http.StatusTooManyRequests, response.DomainRequest, "RateLimited", "Too many requests", GetRequestID(r.Context()))
		}),
	)
}
