package store

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var (
	identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)
	orderPattern = regexp.MustCompile(`^[a-z_][a-z0-9_.]*( (?i:asc|desc))?(, ?[a-z_][a-z0-9_.]*( (?i:asc|desc))?)*$`)
)

// TableName converts a Go type name into its table name: snake_case, then
// pluralized. UserSkill becomes user_skills and Activity becomes activities.
func TableName(typeName string) string {
	return inflection.Plural(SnakeCase(typeName))
}

// ForeignKey returns the column other tables use to reference table, e.g.
// users becomes user_id.
func ForeignKey(table string) string {
	return inflection.Singular(table) + "_id"
}

// SnakeCase converts CamelCase to snake_case, keeping acronyms together so
// that UserID becomes user_id.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func validIdent(name string) bool {
	return identPattern.MatchString(name)
}

func validOrder(order string) bool {
	return orderPattern.MatchString(order)
}
