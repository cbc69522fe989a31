package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// IsTerminal reports whether the status admits no further transition
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted || s == AppointmentStatusNoShow
}

// Appointment type constants
const (
	AppointmentTypeInPerson = "in-person"
	AppointmentTypeVideo    = "video"
	AppointmentTypePhone    = "phone"
)

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// CancelledBy constants
const (
	CancelledByPatient = "patient"
	CancelledByDoctor  = "doctor"
	CancelledByAdmin   = "admin"
)

// Medication is a single prescribed medication entry
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// Prescription stores the outcome of a completed appointment as jsonb
type Prescription struct {
	Medications  []Medication `json:"medications"`
	Instructions string       `json:"instructions,omitempty"`
}

func (p Prescription) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Prescription) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Appointment is the central transactional entity. Rows are never deleted;
// terminal states are retained as history.
type Appointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate    time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	StartTime          string            `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime            string            `gorm:"type:varchar(5);not null" json:"end_time"`
	Status             AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AppointmentType    string            `gorm:"type:varchar(20);not null;default:'in-person'" json:"appointment_type"`
	Reason             string            `gorm:"type:text;not null" json:"reason"`
	Symptoms           StringList        `gorm:"type:jsonb" json:"symptoms,omitempty"`
	Notes              string            `gorm:"type:text" json:"notes,omitempty"`
	Prescription       *Prescription     `gorm:"type:jsonb" json:"prescription,omitempty"`
	PaymentStatus      string            `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Amount             decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"amount"`
	CancellationReason string            `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        string            `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`
	ReminderSent       bool              `gorm:"not null;default:false" json:"reminder_sent"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still blocks its slot.
// Cancelled and no-show appointments free the slot for rebooking.
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// CanCancel reports whether a cancellation is a legal transition
func (a *Appointment) CanCancel() bool {
	return a.Status != AppointmentStatusCompleted && a.Status != AppointmentStatusCancelled
}

// Cancel moves the appointment to cancelled, recording who did it and why
func (a *Appointment) Cancel(reason, by string) {
	a.Status = AppointmentStatusCancelled
	a.CancellationReason = reason
	a.CancelledBy = by
}

// Complete moves the appointment to completed with the visit outcome
func (a *Appointment) Complete(prescription *Prescription, notes string) {
	a.Status = AppointmentStatusCompleted
	a.Prescription = prescription
	a.Notes = notes
}

// Confirm moves the appointment to confirmed
func (a *Appointment) Confirm() {
	a.Status = AppointmentStatusConfirmed
}

// Duration returns the appointment length in minutes, 0 when times are malformed
func (a *Appointment) Duration() int {
	start, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", a.EndTime)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// AppointmentFilter is a domain-level filter for appointment listings.
type AppointmentFilter struct {
	Status AppointmentStatus // empty disables the filter
	Date   *time.Time        // matches the whole calendar day [date, date+1)
}
