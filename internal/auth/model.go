package auth

import (
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// Authentication represents a login session: an opaque bearer token bound to
// a user until expires_at.
type Authentication struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Token     string     `db:"token"`
	ExpiresAt *time.Time `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Valid reports whether the session is still usable at now. A session
// without an expiry is never valid.
func (a *Authentication) Valid(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.After(now)
}

// Principal is stored in the request context after token verification.
type Principal struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Traits for the authentications table. Sessions are expirable and are
// removed outright on logout.
var Traits = store.Traits{HasID: true, Creatable: true, Updatable: true, Expirable: true}
