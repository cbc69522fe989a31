package memory

import (
	"context"
	"sort"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
)

type appointmentRepository struct {
	store *Store
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.write(func(d *data) error {
		// Check-and-insert under the store lock keeps the slot uniqueness
		// invariant atomic, matching the partial unique indexes of the
		// durable store.
		for _, a := range d.appointments {
			if !a.IsActive() {
				continue
			}
			if a.StartTime != appointment.StartTime || !sameDay(a.AppointmentDate, appointment.AppointmentDate) {
				continue
			}
			if a.DoctorID == appointment.DoctorID || a.PatientID == appointment.PatientID {
				return domainRepo.ErrSlotTaken
			}
		}

		if appointment.ID == uuid.Nil {
			appointment.ID = uuid.New()
		}
		now := time.Now()
		appointment.CreatedAt = now
		appointment.UpdatedAt = now
		d.appointments[appointment.ID] = detach(appointment)
		return nil
	})
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var found *entity.Appointment
	r.store.read(func(d *data) {
		if a, ok := d.appointments[id]; ok {
			joinParties(d, &a)
			found = &a
		}
	})
	return found, nil
}

func (r *appointmentRepository) HasActiveDoctorSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	exists := false
	r.store.read(func(d *data) {
		for _, a := range d.appointments {
			if a.DoctorID == doctorID && a.StartTime == startTime && sameDay(a.AppointmentDate, date) && a.IsActive() {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *appointmentRepository) HasActivePatientSlot(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error) {
	exists := false
	r.store.read(func(d *data) {
		for _, a := range d.appointments {
			if a.PatientID == patientID && a.StartTime == startTime && sameDay(a.AppointmentDate, date) && a.IsActive() {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	return r.findFiltered(func(a *entity.Appointment) bool { return a.PatientID == patientID }, filter), nil
}

func (r *appointmentRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	return r.findFiltered(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }, filter), nil
}

func (r *appointmentRepository) findFiltered(match func(*entity.Appointment) bool, filter entity.AppointmentFilter) []entity.Appointment {
	var appointments []entity.Appointment
	r.store.read(func(d *data) {
		for _, a := range d.appointments {
			if !match(&a) {
				continue
			}
			if filter.Status != "" && a.Status != filter.Status {
				continue
			}
			if filter.Date != nil && !sameDay(a.AppointmentDate, *filter.Date) {
				continue
			}
			joinParties(d, &a)
			appointments = append(appointments, a)
		}
	})
	sort.Slice(appointments, func(i, j int) bool {
		di, dj := dayOf(appointments[i].AppointmentDate), dayOf(appointments[j].AppointmentDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return appointments[i].StartTime < appointments[j].StartTime
	})
	return appointments
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.write(func(d *data) error {
		// A reschedule can land on an occupied slot, so the update repeats
		// the active-slot scan against every other appointment. The durable
		// store gets this from its partial unique indexes.
		if appointment.IsActive() {
			for _, a := range d.appointments {
				if a.ID == appointment.ID || !a.IsActive() {
					continue
				}
				if a.StartTime != appointment.StartTime || !sameDay(a.AppointmentDate, appointment.AppointmentDate) {
					continue
				}
				if a.DoctorID == appointment.DoctorID || a.PatientID == appointment.PatientID {
					return domainRepo.ErrSlotTaken
				}
			}
		}

		appointment.UpdatedAt = time.Now()
		d.appointments[appointment.ID] = detach(appointment)
		return nil
	})
}

// detach strips joined relations before storing a copy
func detach(a *entity.Appointment) entity.Appointment {
	stored := *a
	stored.Patient = entity.User{}
	stored.Doctor = entity.Doctor{}
	return stored
}

func joinParties(d *data, a *entity.Appointment) {
	if p, ok := d.users[a.PatientID]; ok {
		a.Patient = p
	}
	if doc, ok := d.doctors[a.DoctorID]; ok {
		joinUser(d, &doc)
		a.Doctor = doc
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dayOf(a).Equal(dayOf(b))
}
