package booking

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	SetCancelled(ctx context.Context, id uuid.UUID, cancelled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteOwned removes an appointment only if it belongs to patientID.
	// A mismatch is indistinguishable from a missing record.
	DeleteOwned(ctx context.Context, id, patientID uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}
