package service

import (
	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentAction is a capability being checked against an appointment
type AppointmentAction string

const (
	ActionViewAppointment     AppointmentAction = "view"
	ActionUpdateAppointment   AppointmentAction = "update"
	ActionCancelAppointment   AppointmentAction = "cancel"
	ActionCompleteAppointment AppointmentAction = "complete"
)

// DoctorMatchPolicy decides what "the doctor on this appointment" means when
// the actor is not an admin. The legacy system compared the acting user's id
// against the appointment's doctor *profile* id, which only matches when the
// two ids coincide; the owner policy compares against the profile's owning
// user id instead. Both are kept behind configuration pending product
// clarification.
type DoctorMatchPolicy string

const (
	// DoctorMatchOwner compares actor id to Doctor.UserID
	DoctorMatchOwner DoctorMatchPolicy = "owner"
	// DoctorMatchProfile compares actor id to Doctor.ID, as the legacy
	// system literally did
	DoctorMatchProfile DoctorMatchPolicy = "profile"
)

// Actor is the authenticated principal a capability is checked for
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Authorizer is the capability gate applied before every appointment
// mutation and before viewing a single appointment. It is a pure function
// of (actor, resource, action); it performs no I/O.
type Authorizer struct {
	doctorMatch DoctorMatchPolicy
}

func NewAuthorizer(doctorMatch DoctorMatchPolicy) *Authorizer {
	if doctorMatch != DoctorMatchProfile {
		doctorMatch = DoctorMatchOwner
	}
	return &Authorizer{doctorMatch: doctorMatch}
}

// CanAppointment reports whether actor may perform action on the appointment.
//
// Rules, in priority order: admins are always allowed; complete is restricted
// to the appointment's doctor (a patient may never complete their own
// appointment); view/update/cancel are allowed for the appointment's patient
// or its doctor.
func (a *Authorizer) CanAppointment(actor Actor, appointment *entity.Appointment, action AppointmentAction) bool {
	if actor.Role == entity.RoleAdmin {
		return true
	}

	isDoctor := a.matchesDoctor(actor, appointment)

	if action == ActionCompleteAppointment {
		return isDoctor
	}

	return actor.ID == appointment.PatientID || isDoctor
}

// CanModifyDoctor reports whether actor may update the doctor profile:
// the owning user or an admin.
func (a *Authorizer) CanModifyDoctor(actor Actor, doctor *entity.Doctor) bool {
	if actor.Role == entity.RoleAdmin {
		return true
	}
	return actor.ID == doctor.UserID
}

func (a *Authorizer) matchesDoctor(actor Actor, appointment *entity.Appointment) bool {
	if a.doctorMatch == DoctorMatchProfile {
		return actor.ID == appointment.DoctorID
	}
	return appointment.Doctor.UserID != uuid.Nil && actor.ID == appointment.Doctor.UserID
}
