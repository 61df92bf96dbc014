package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

// maxBookRetries bounds the reload-and-retry loop when the doctor's ledger
// version moves between read and write.
const maxBookRetries = 5

type Service struct {
	appointments AppointmentRepository
	doctors      doctor.Repository
	patients     identity.Repository
	logger       zerolog.Logger
}

func NewService(appointments AppointmentRepository, doctors doctor.Repository, patients identity.Repository, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		logger:       logger,
	}
}

// Book reserves the (date, time) slot on the doctor's ledger and creates the
// appointment record with profile snapshots taken at this instant.
//
// The ledger write is a compare-and-swap on the doctor's slots version. Two
// concurrent bookings for the same slot both pass the in-memory free check,
// but only one CAS succeeds; the loser reloads the ledger, sees the slot
// taken, removes its orphaned appointment record and reports ErrSlotConflict.
func (s *Service) Book(ctx context.Context, patientID, doctorID uuid.UUID, date, timeSlot string) (*Appointment, error) {
	if date == "" || timeSlot == "" {
		return nil, fmt.Errorf("slot date and time are required")
	}

	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !d.Available {
		return nil, ErrDoctorUnavailable
	}
	if !IsFree(Ledger(d.SlotsBooked), date, timeSlot) {
		return nil, ErrSlotConflict
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	appt := &Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		PatientSnapshot: p.PublicProfile(),
		DoctorSnapshot:  d.PublicProfile(),
		Amount:          d.Fees,
		SlotDate:        date,
		SlotTime:        timeSlot,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	for attempt := 0; ; attempt++ {
		next, err := Reserve(Ledger(d.SlotsBooked), date, timeSlot)
		if err != nil {
			// Someone else took the slot while we were retrying. Remove the
			// appointment we optimistically created.
			s.removeOrphan(ctx, appt.ID)
			return nil, ErrSlotConflict
		}

		err = s.doctors.UpdateSlots(ctx, doctorID, next, d.SlotsVersion)
		if err == nil {
			return appt, nil
		}
		if !errors.Is(err, doctor.ErrVersionConflict) || attempt >= maxBookRetries {
			// The appointment exists but the ledger write failed. Flag it
			// loudly instead of retrying a write that may have partially
			// applied.
			s.logger.Error().Err(err).
				Str("appointment_id", appt.ID.String()).
				Str("doctor_id", doctorID.String()).
				Str("slot_date", date).
				Str("slot_time", timeSlot).
				Msg("appointment created but ledger write failed")
			return nil, fmt.Errorf("update slots: %w", err)
		}

		d, err = s.doctors.GetByID(ctx, doctorID)
		if err != nil {
			return nil, fmt.Errorf("reload doctor: %w", err)
		}
	}
}

// removeOrphan deletes an appointment whose slot reservation lost the race.
func (s *Service) removeOrphan(ctx context.Context, id uuid.UUID) {
	if err := s.appointments.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).
			Str("appointment_id", id.String()).
			Msg("failed to remove appointment after slot conflict")
	}
}

// Cancel marks the appointment cancelled and releases its slot. Only the
// owning patient may cancel unless isAdmin is set. The ledger release is
// best-effort: a missing doctor record leaves the appointment cancelled.
func (s *Service) Cancel(ctx context.Context, requesterID, appointmentID uuid.UUID, isAdmin bool) error {
	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("load appointment: %w", err)
	}
	if !isAdmin && appt.PatientID != requesterID {
		return ErrUnauthorized
	}

	if err := s.appointments.SetCancelled(ctx, appointmentID, true); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	if err := s.releaseSlot(ctx, appt); err != nil {
		s.logger.Warn().Err(err).
			Str("appointment_id", appointmentID.String()).
			Str("doctor_id", appt.DoctorID.String()).
			Msg("appointment cancelled but ledger cleanup skipped")
	}
	return nil
}

// AdminCancel cancels any appointment without an ownership check.
func (s *Service) AdminCancel(ctx context.Context, appointmentID uuid.UUID) error {
	return s.Cancel(ctx, uuid.Nil, appointmentID, true)
}

// releaseSlot removes the appointment's slot from its doctor's ledger, using
// the same CAS loop as Book. Release is idempotent so retrying is safe.
func (s *Service) releaseSlot(ctx context.Context, appt *Appointment) error {
	for attempt := 0; ; attempt++ {
		d, err := s.doctors.GetByID(ctx, appt.DoctorID)
		if err != nil {
			if errors.Is(err, doctor.ErrNotFound) {
				return ErrDoctorNotFound
			}
			return fmt.Errorf("load doctor: %w", err)
		}

		next := Release(Ledger(d.SlotsBooked), appt.SlotDate, appt.SlotTime)
		err = s.doctors.UpdateSlots(ctx, appt.DoctorID, next, d.SlotsVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, doctor.ErrVersionConflict) || attempt >= maxBookRetries {
			return fmt.Errorf("update slots: %w", err)
		}
	}
}

// Delete permanently removes an appointment owned by patientID. Ownership is
// part of the lookup: a mismatch reads as not found. The ledger is never
// touched here; cancellation already released the slot.
func (s *Service) Delete(ctx context.Context, patientID, appointmentID uuid.UUID) error {
	if err := s.appointments.DeleteOwned(ctx, appointmentID, patientID); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// ListByPatient returns a patient's appointments, active and cancelled.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

// ListByDoctor returns all appointments booked against one doctor.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

// ListAll returns every appointment, for the admin dashboard.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListAll(ctx, limit, offset)
}
