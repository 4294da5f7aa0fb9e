package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case maps to the surgical_case table. Each case owns up to three optional
// file attachments, stored in the object store under the owner's prefix.
type Case struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	OwnerID       uuid.UUID  `db:"owner_id" json:"owner_id"`
	SurgeonID     *uuid.UUID `db:"surgeon_id" json:"surgeon_id,omitempty"`
	FacilityID    *uuid.UUID `db:"facility_id" json:"facility_id,omitempty"`
	PaymentTierID *uuid.UUID `db:"payment_tier_id" json:"payment_tier_id,omitempty"`
	PatientFirst  string     `db:"patient_first" json:"patient_first"`
	PatientLast   string     `db:"patient_last" json:"patient_last"`
	Status        string     `db:"status" json:"status"`
	DemoFile      *string    `db:"demo_file" json:"demo_file,omitempty"`
	NoteFile      *string    `db:"note_file" json:"note_file,omitempty"`
	MiscFile      *string    `db:"misc_file" json:"misc_file,omitempty"`
	ScheduledAt   *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// CaseFileRecord is the read-only snapshot the bundle pipeline works from.
// It is fetched once per request and never written back.
type CaseFileRecord struct {
	CaseID       uuid.UUID
	OwnerID      uuid.UUID
	DemoFile     *string
	NoteFile     *string
	MiscFile     *string
	PatientFirst string
	PatientLast  string
}

// FileKind identifies which of the three attachment slots a filename
// came from.
const (
	FileKindDemo = "demo"
	FileKindNote = "note"
	FileKindMisc = "misc"
)
