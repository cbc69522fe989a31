package postgres

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Create(appointment).Error
	if err != nil {
		// Partial unique indexes on active (doctor, date, start) and
		// (patient, date, start) close the check-then-insert race.
		if isUniqueViolation(err, "slot") {
			return domainRepo.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) HasActiveDoctorSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND start_time = ? AND status NOT IN ?",
			doctorID, date, startTime, []entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) HasActivePatientSlot(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("patient_id = ? AND appointment_date = ? AND start_time = ? AND status NOT IN ?",
			patientID, date, startTime, []entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	return r.findFiltered(ctx, "patient_id = ?", patientID, filter)
}

func (r *appointmentRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	return r.findFiltered(ctx, "doctor_id = ?", doctorID, filter)
}

func (r *appointmentRepository) findFiltered(ctx context.Context, cond string, id uuid.UUID, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor.User").
		Where(cond, id)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		// Day-inclusive range: [date 00:00, date+1 00:00)
		day := filter.Date.Truncate(24 * time.Hour)
		query = query.Where("appointment_date >= ? AND appointment_date < ?", day, day.Add(24*time.Hour))
	}

	var appointments []entity.Appointment
	err := query.Order("appointment_date ASC, start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Save(appointment).Error
	if err != nil && isUniqueViolation(err, "slot") {
		return domainRepo.ErrSlotTaken
	}
	return err
}
