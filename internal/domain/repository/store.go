package repository

import (
	"context"
	"errors"
)

// ErrSlotTaken is returned by AppointmentRepository.Create when the storage
// layer rejects the insert because another active appointment already holds
// the same (doctor, date, start time) or (patient, date, start time) slot.
// This is the backstop for the application-level conflict check: two
// concurrent creates can both pass the check, but only one insert wins.
var ErrSlotTaken = errors.New("appointment slot already taken")

// ErrDuplicateEmail is returned by UserRepository.Create and Update when the
// email is already held by another user. Like ErrSlotTaken it backstops the
// application-level existence check.
var ErrDuplicateEmail = errors.New("email already taken")

// Store aggregates the repositories over a single persistence backend.
// Two implementations exist: the durable Postgres store and an in-process
// memory store selected at startup when Postgres is unreachable.
type Store interface {
	Users() UserRepository
	Doctors() DoctorRepository
	Appointments() AppointmentRepository
	AuditLogs() AuditLogRepository

	// WithinTx runs fn against a transactional view of the store. All writes
	// made through the view are committed together or rolled back when fn
	// returns an error.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
