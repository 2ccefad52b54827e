package skill

import (
	"strings"
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// UserSkill records a skill a user claims and its level.
type UserSkill struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	SkillName  string    `db:"skill_name"`
	SkillLevel int32     `db:"skill_level"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Traits for the user_skills table. Skills are hard-deleted.
var Traits = store.Traits{HasID: true, Creatable: true, Updatable: true}

// Normalize returns the canonical form of a skill name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
