package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type TimeSlotRequest struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Enabled   bool   `json:"enabled"`
}

type EducationRequest struct {
	Degree           string `json:"degree"`
	Institution      string `json:"institution"`
	YearOfGraduation int    `json:"year_of_graduation" validate:"omitempty,gte=1900"`
}

type CertificationRequest struct {
	Name             string `json:"name" validate:"required"`
	IssuingAuthority string `json:"issuing_authority"`
	Year             int    `json:"year" validate:"omitempty,gte=1900"`
}

type CreateDoctorRequest struct {
	UserID          uuid.UUID              `json:"user_id" validate:"required"`
	Specialization  string                 `json:"specialization" validate:"required,max=100"`
	LicenseNumber   string                 `json:"license_number" validate:"required,max=50"`
	Experience      int                    `json:"experience" validate:"gte=0"`
	Education       *EducationRequest      `json:"education" validate:"omitempty"`
	Certifications  []CertificationRequest `json:"certifications" validate:"omitempty,dive"`
	Languages       []string               `json:"languages"`
	ConsultationFee decimal.Decimal        `json:"consultation_fee" validate:"required"`
	Availability    []TimeSlotRequest      `json:"availability" validate:"omitempty,dive"`
	Bio             string                 `json:"bio" validate:"omitempty,max=500"`
}

type UpdateDoctorRequest struct {
	Specialization  string                 `json:"specialization" validate:"omitempty,max=100"`
	Experience      *int                   `json:"experience" validate:"omitempty,gte=0"`
	Education       *EducationRequest      `json:"education" validate:"omitempty"`
	Certifications  []CertificationRequest `json:"certifications" validate:"omitempty,dive"`
	Languages       []string               `json:"languages"`
	ConsultationFee *decimal.Decimal       `json:"consultation_fee"`
	Availability    []TimeSlotRequest      `json:"availability" validate:"omitempty,dive"`
	Bio             string                 `json:"bio" validate:"omitempty,max=500"`
	IsAvailable     *bool                  `json:"is_available"`
}

// Response DTOs

type TimeSlotResponse struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

type DoctorResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	User            *UserResponse          `json:"user,omitempty"`
	Specialization  string                 `json:"specialization"`
	LicenseNumber   string                 `json:"license_number"`
	Experience      int                    `json:"experience"`
	Education       *EducationRequest      `json:"education,omitempty"`
	Certifications  []CertificationRequest `json:"certifications,omitempty"`
	Languages       []string               `json:"languages,omitempty"`
	ConsultationFee decimal.Decimal        `json:"consultation_fee"`
	Availability    []TimeSlotResponse     `json:"availability,omitempty"`
	Bio             string                 `json:"bio,omitempty"`
	Rating          float64                `json:"rating"`
	TotalReviews    int                    `json:"total_reviews"`
	IsAvailable     bool                   `json:"is_available"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
