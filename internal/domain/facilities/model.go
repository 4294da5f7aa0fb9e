package facilities

import (
	"time"

	"github.com/google/uuid"
)

// Facility maps to the facility table.
type Facility struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	AddressL1  *string   `db:"address_line1" json:"address_line1,omitempty"`
	AddressL2  *string   `db:"address_line2" json:"address_line2,omitempty"`
	City       *string   `db:"city" json:"city,omitempty"`
	State      *string   `db:"state" json:"state,omitempty"`
	PostalCode *string   `db:"postal_code" json:"postal_code,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
