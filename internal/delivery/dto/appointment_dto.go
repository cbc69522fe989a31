package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	StartTime       string    `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string    `json:"end_time" validate:"required,datetime=15:04"`
	AppointmentType string    `json:"appointment_type" validate:"omitempty,oneof=in-person video phone"`
	Reason          string    `json:"reason" validate:"required"`
	Symptoms        []string  `json:"symptoms"`
}

// UpdateAppointmentRequest is a permissive partial update: any field present
// is merged in. Amount is deliberately absent, it is fixed at creation.
type UpdateAppointmentRequest struct {
	AppointmentDate string   `json:"appointment_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime       string   `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime         string   `json:"end_time" validate:"omitempty,datetime=15:04"`
	AppointmentType string   `json:"appointment_type" validate:"omitempty,oneof=in-person video phone"`
	Reason          string   `json:"reason"`
	Symptoms        []string `json:"symptoms"`
	Notes           string   `json:"notes"`
	Status          string   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed no-show"`
	PaymentStatus   string   `json:"payment_status" validate:"omitempty,oneof=pending paid refunded"`
}

type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}

type MedicationRequest struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type PrescriptionRequest struct {
	Medications  []MedicationRequest `json:"medications" validate:"dive"`
	Instructions string              `json:"instructions"`
}

type CompleteAppointmentRequest struct {
	Prescription PrescriptionRequest `json:"prescription"`
	Notes        string              `json:"notes"`
}

// Response DTOs

type PrescriptionResponse struct {
	Medications  []MedicationRequest `json:"medications"`
	Instructions string              `json:"instructions,omitempty"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID             `json:"id"`
	PatientID          uuid.UUID             `json:"patient_id"`
	DoctorID           uuid.UUID             `json:"doctor_id"`
	Patient            *UserResponse         `json:"patient,omitempty"`
	Doctor             *DoctorResponse       `json:"doctor,omitempty"`
	AppointmentDate    string                `json:"appointment_date"`
	StartTime          string                `json:"start_time"`
	EndTime            string                `json:"end_time"`
	Status             string                `json:"status"`
	AppointmentType    string                `json:"appointment_type"`
	Reason             string                `json:"reason"`
	Symptoms           []string              `json:"symptoms,omitempty"`
	Notes              string                `json:"notes,omitempty"`
	Prescription       *PrescriptionResponse `json:"prescription,omitempty"`
	PaymentStatus      string                `json:"payment_status"`
	Amount             decimal.Decimal       `json:"amount"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CancelledBy        string                `json:"cancelled_by,omitempty"`
	Duration           int                   `json:"duration"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
