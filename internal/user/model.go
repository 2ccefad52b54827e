package user

import (
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// User represents a registered account. PasswordHash never leaves the
// service boundary.
type User struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	ArchivedAt   *time.Time `db:"archived_at"`
}

// Traits for the users table.
var Traits = store.Traits{HasID: true, Archivable: true, Creatable: true, Updatable: true}

// NewTable registers the users table on s.
func NewTable(s *store.Store) *store.Table[User] {
	return store.NewTable[User](s, Traits)
}
