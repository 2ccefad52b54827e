package team

import (
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// Team represents a row in the teams table. The owner has full control;
// everyone else joins through an Invitation.
type Team struct {
	ID          string     `db:"id"`
	OwnerID     string     `db:"owner_id"`
	Name        string     `db:"team_name"`
	Description string     `db:"team_description"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	ArchivedAt  *time.Time `db:"archived_at"`
}

// Role is the role an invitee takes in a team.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Roles lists the valid roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleMember}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Invitation represents a row in the invitations table.
type Invitation struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	TeamID     string     `db:"team_id"`
	TeamRole   Role       `db:"team_role"`
	AcceptedAt *time.Time `db:"accepted_at"`
	RejectedAt *time.Time `db:"rejected_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// IsAccepted reports whether the invitee accepted.
func (i *Invitation) IsAccepted() bool { return i.AcceptedAt != nil }

// IsRejected reports whether the invitee rejected.
func (i *Invitation) IsRejected() bool { return i.RejectedAt != nil }

// IsPending reports whether the invitation is still unanswered.
func (i *Invitation) IsPending() bool { return i.AcceptedAt == nil && i.RejectedAt == nil }

var (
	// TeamTraits for the teams table.
	TeamTraits = store.Traits{HasID: true, Archivable: true, Creatable: true, Updatable: true}
	// InvitationTraits for the invitations table.
	InvitationTraits = store.Traits{HasID: true, Creatable: true, Updatable: true}
)
