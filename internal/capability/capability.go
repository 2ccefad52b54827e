// Package capability derives who in a team can do what, and who is free to
// take new work.
package capability

import (
	"sort"

	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/skill"
	"github.com/daap14/teamcap/internal/user"
)

// Entry is one member's standing in one skill.
type Entry struct {
	User      user.User
	Skill     string
	Level     int32
	Available bool
}

// Map groups entries by lower-cased skill name.
type Map map[string][]Entry

// Build aggregates the skills of members into a Map. A member assigned to
// any uncompleted activity is unavailable in every entry.
func Build(members []user.User, skills map[string][]skill.UserSkill, activities []activity.Activity) Map {
	busy := make(map[string]bool)
	for i := range activities {
		a := &activities[i]
		if a.AssignedTo != nil && !a.IsCompleted() {
			busy[*a.AssignedTo] = true
		}
	}

	m := make(Map)
	for _, member := range members {
		for _, s := range skills[member.ID] {
			name := skill.Normalize(s.SkillName)
			m[name] = append(m[name], Entry{
				User:      member,
				Skill:     name,
				Level:     s.SkillLevel,
				Available: !busy[member.ID],
			})
		}
	}

	for name := range m {
		entries := m[name]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Level != entries[j].Level {
				return entries[i].Level > entries[j].Level
			}
			return entries[i].User.Username < entries[j].User.Username
		})
	}

	return m
}
