package support

import (
	"time"

	"github.com/google/uuid"
)

// FAQ maps to the faq table.
type FAQ struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BugReport maps to the bug_report table.
type BugReport struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ReporterID  uuid.UUID `db:"reporter_id" json:"reporter_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Severity    string    `db:"severity" json:"severity"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
