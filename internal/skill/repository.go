package skill

import (
	"context"
	"errors"
)

// ErrSkillNotFound is returned when a skill record is not found.
var ErrSkillNotFound = errors.New("user skill not found")

// ErrDuplicateSkill is returned when the user already has a skill with that name.
var ErrDuplicateSkill = errors.New("user skill already exists")

// Update holds optional skill changes. Nil fields are left as is.
type Update struct {
	SkillName  *string
	SkillLevel *int32
}

// Repository provides operations on the user_skills table.
type Repository interface {
	Create(ctx context.Context, userID, name string, level int32) (*UserSkill, error)
	GetForUser(ctx context.Context, userID, id string) (*UserSkill, error)
	ListByUser(ctx context.Context, userID string) ([]UserSkill, error)
	Update(ctx context.Context, userID, id string, u Update) (*UserSkill, error)
	Delete(ctx context.Context, userID, id string) error
}
