package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

// Appointment maps to the appointment table. PatientSnapshot and
// DoctorSnapshot are jsonb copies of the public profiles as they were at
// booking time; later profile edits do not rewrite history. Amount is the
// doctor's fee at booking time.
type Appointment struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	PatientID       uuid.UUID        `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID        `db:"doctor_id" json:"doctor_id"`
	PatientSnapshot identity.Profile `db:"patient_snapshot" json:"patient_snapshot"`
	DoctorSnapshot  doctor.Profile   `db:"doctor_snapshot" json:"doctor_snapshot"`
	Amount          int64            `db:"amount" json:"amount"`
	SlotDate        string           `db:"slot_date" json:"slot_date"`
	SlotTime        string           `db:"slot_time" json:"slot_time"`
	Cancelled       bool             `db:"cancelled" json:"cancelled"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}
