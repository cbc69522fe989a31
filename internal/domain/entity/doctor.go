package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeSlot is a weekly availability window on a doctor's calendar.
type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

// TimeSlotList stores availability slots as a jsonb column
type TimeSlotList []TimeSlot

func (l TimeSlotList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *TimeSlotList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Education holds a doctor's academic background
type Education struct {
	Degree           string `json:"degree,omitempty"`
	Institution      string `json:"institution,omitempty"`
	YearOfGraduation int    `json:"year_of_graduation,omitempty"`
}

func (e Education) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *Education) Scan(value interface{}) error {
	return scanJSON(value, e)
}

// Certification is a single professional certification entry
type Certification struct {
	Name             string `json:"name"`
	IssuingAuthority string `json:"issuing_authority,omitempty"`
	Year             int    `json:"year,omitempty"`
}

// CertificationList stores certifications as a jsonb column
type CertificationList []Certification

func (l CertificationList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *CertificationList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// StringList stores a plain string slice as a jsonb column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// scanJSON unmarshals a jsonb column into dest, implements sql.Scanner plumbing
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, dest)
}

// Doctor represents the professional profile owned by exactly one user.
// The owning user record is never deleted with the profile; only its role
// is cascaded back to patient.
type Doctor struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialization  string            `gorm:"type:varchar(100);not null;index" json:"specialization"`
	LicenseNumber   string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Experience      int               `gorm:"not null;default:0" json:"experience"`
	Education       Education         `gorm:"type:jsonb" json:"education,omitempty"`
	Certifications  CertificationList `gorm:"type:jsonb" json:"certifications,omitempty"`
	Languages       StringList        `gorm:"type:jsonb" json:"languages,omitempty"`
	ConsultationFee decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	Availability    TimeSlotList      `gorm:"type:jsonb" json:"availability,omitempty"`
	Bio             string            `gorm:"type:varchar(500)" json:"bio,omitempty"`
	Rating          float64           `gorm:"type:decimal(2,1);not null;default:0" json:"rating"`
	TotalReviews    int               `gorm:"not null;default:0" json:"total_reviews"`
	IsAvailable     bool              `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// DoctorFilter is a domain-level filter for the public doctor directory.
// Used by the repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Specialization string  // substring match, case-insensitive
	MinRating      float64 // 0 disables the filter
	OnlyAvailable  bool
}
