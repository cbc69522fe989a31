package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User represents the centralized identity record. A user's role changes to
// doctor when a doctor profile is created for them and back to patient when
// that profile is deleted.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Email       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"type:text;not null" json:"-"`
	Phone       string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role        string     `gorm:"type:varchar(20);not null;default:'patient';index" json:"role"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:UserID" json:"doctor,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
