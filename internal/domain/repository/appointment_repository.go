package repository

import (
	"context"
	"time"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts a new appointment. Returns ErrSlotTaken when another
	// active appointment already holds one of the appointment's slots.
	Create(ctx context.Context, appointment *entity.Appointment) error

	// FindByID returns the appointment with patient and doctor (including
	// the doctor's owning user) joined in, or nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// HasActiveDoctorSlot reports whether the doctor already has an
	// appointment at (date, startTime) whose status still blocks the slot.
	HasActiveDoctorSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error)

	// HasActivePatientSlot is the patient-side counterpart.
	HasActivePatientSlot(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error)

	// FindByPatient returns the patient's appointments, filtered and sorted
	// by (appointment date, start time) ascending.
	FindByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error)

	// FindByDoctor is the doctor-side counterpart of FindByPatient.
	FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error)

	Update(ctx context.Context, appointment *entity.Appointment) error
}
