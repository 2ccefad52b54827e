package backupcode

import (
	"time"

	"github.com/daap14/teamcap/internal/store"
)

// BatchSize is the number of codes issued per generation.
const BatchSize = 10

// BackupCode is a single-use recovery code. Archived codes are spent or
// superseded.
type BackupCode struct {
	ID         string     `db:"id"`
	Code       string     `db:"code"`
	UserID     string     `db:"user_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	ArchivedAt *time.Time `db:"archived_at"`
}

// Traits for the backup_codes table.
var Traits = store.Traits{HasID: true, Archivable: true, Creatable: true, Updatable: true}

// Codes returns the code strings of codes in order.
func Codes(codes []BackupCode) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, c.Code)
	}
	return out
}
