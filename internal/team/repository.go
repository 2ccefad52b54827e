package team

import (
	"context"
	"errors"

	"github.com/daap14/teamcap/internal/user"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrInvitationNotFound is returned when an invitation record is not found.
var ErrInvitationNotFound = errors.New("invitation not found")

// ErrInvitationExists is returned when the user is already invited to the team.
var ErrInvitationExists = errors.New("invitation already exists")

// ErrAlreadyAnswered is returned when responding to an accepted or rejected invitation.
var ErrAlreadyAnswered = errors.New("invitation already answered")

// ErrInviteeNotFound is returned when inviting a user that does not exist.
var ErrInviteeNotFound = errors.New("invited user not found")

// Update holds optional team changes. Nil fields are left as is.
type Update struct {
	Name        *string
	Description *string
}

// Repository provides operations on the teams table.
type Repository interface {
	Create(ctx context.Context, ownerID, name, description string) (*Team, error)
	GetByID(ctx context.Context, id string) (*Team, error)
	GetOwned(ctx context.Context, ownerID, id string) (*Team, error)
	ListOwned(ctx context.Context, ownerID string) ([]Team, error)
	ListByInvitee(ctx context.Context, userID string) ([]Team, error)
	Update(ctx context.Context, id string, u Update) (*Team, error)
	Archive(ctx context.Context, id string) error
}

// InvitationRepository provides operations on the invitations table.
type InvitationRepository interface {
	Create(ctx context.Context, teamID, userID string, role Role) (*Invitation, error)
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetForUser(ctx context.Context, userID, id string) (*Invitation, error)
	GetForTeam(ctx context.Context, teamID, id string) (*Invitation, error)
	FindByTeamAndUser(ctx context.Context, teamID, userID string) (*Invitation, error)
	ListByTeam(ctx context.Context, teamID string) ([]Invitation, error)
	ListByUser(ctx context.Context, userID string) ([]Invitation, error)
	Respond(ctx context.Context, userID, id string, accept bool) (*Invitation, error)
	Delete(ctx context.Context, teamID, id string) error
	ListInvitedUsers(ctx context.Context, teamID string) ([]user.User, error)
}
