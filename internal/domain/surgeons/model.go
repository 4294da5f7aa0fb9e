package surgeons

import (
	"time"

	"github.com/google/uuid"
)

// Surgeon maps to the surgeon table.
type Surgeon struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	Specialty  *string    `db:"specialty" json:"specialty,omitempty"`
	NPI        *string    `db:"npi" json:"npi,omitempty"`
	FacilityID *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
