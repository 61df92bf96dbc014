package booking

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorUnavailable   = errors.New("doctor is not accepting bookings")
	ErrSlotConflict        = errors.New("slot already booked")
	ErrUnauthorized        = errors.New("not authorized for this appointment")
)
