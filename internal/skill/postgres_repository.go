package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/daap14/teamcap/internal/store"
)

// PostgresRepository implements Repository on the user_skills table.
type PostgresRepository struct {
	skills *store.Table[UserSkill]
}

// NewRepository creates a new Repository backed by the given store.
func NewRepository(s *store.Store) Repository {
	return &PostgresRepository{skills: store.NewTable[UserSkill](s, Traits)}
}

// Create inserts a skill for userID. The name is normalized to lower case.
func (r *PostgresRepository) Create(ctx context.Context, userID, name string, level int32) (*UserSkill, error) {
	s, err := r.skills.Insert(ctx,
		store.Set("user_id", store.String(userID)),
		store.Set("skill_name", store.String(Normalize(name))),
		store.Set("skill_level", store.Int(level)),
	)
	if err != nil {
		return nil, mapError("inserting user skill", err)
	}
	return s, nil
}

// GetForUser retrieves a skill owned by userID.
func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id string) (*UserSkill, error) {
	s, err := r.skills.FindOne(ctx, store.Any,
		store.Where("id", store.String(id)),
		store.Where("user_id", store.String(userID)),
	)
	if err != nil {
		return nil, mapError("querying user skill", err)
	}
	return s, nil
}

// ListByUser returns the skills of userID ordered by name.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]UserSkill, error) {
	skills, err := r.skills.FindAll(ctx, store.Any,
		store.Where("user_id", store.String(userID)),
		store.OrderBy("skill_name ASC"),
	)
	if err != nil {
		return nil, fmt.Errorf("listing user skills: %w", err)
	}
	return skills, nil
}

// Update applies the non-nil fields of u to a skill owned by userID.
func (r *PostgresRepository) Update(ctx context.Context, userID, id string, u Update) (*UserSkill, error) {
	var fields []store.Field
	if u.SkillName != nil {
		fields = append(fields, store.Set("skill_name", store.String(Normalize(*u.SkillName))))
	}
	if u.SkillLevel != nil {
		fields = append(fields, store.Set("skill_level", store.Int(*u.SkillLevel)))
	}

	s, err := r.skills.UpdateIf(ctx, id, fields, store.Where("user_id", store.String(userID)))
	if err != nil {
		return nil, mapError("updating user skill", err)
	}
	return s, nil
}

// Delete removes a skill owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.skills.Delete(ctx,
		store.Where("id", store.String(id)),
		store.Where("user_id", store.String(userID)),
	)
	if err != nil {
		return fmt.Errorf("deleting user skill: %w", err)
	}
	if n == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrSkillNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrDuplicateSkill
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
