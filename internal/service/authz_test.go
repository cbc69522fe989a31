package service

import (
	"testing"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

func TestCanAppointmentTruthTable(t *testing.T) {
	patientID := uuid.New()
	doctorUserID := uuid.New()
	doctorProfileID := uuid.New()
	strangerID := uuid.New()

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  doctorProfileID,
		Doctor:    entity.Doctor{ID: doctorProfileID, UserID: doctorUserID},
	}

	authorizer := NewAuthorizer(DoctorMatchOwner)

	cases := []struct {
		name   string
		actor  Actor
		action AppointmentAction
		want   bool
	}{
		{"patient views own", Actor{ID: patientID, Role: entity.RolePatient}, ActionViewAppointment, true},
		{"patient updates own", Actor{ID: patientID, Role: entity.RolePatient}, ActionUpdateAppointment, true},
		{"patient cancels own", Actor{ID: patientID, Role: entity.RolePatient}, ActionCancelAppointment, true},
		{"patient completes own", Actor{ID: patientID, Role: entity.RolePatient}, ActionCompleteAppointment, false},
		{"doctor views", Actor{ID: doctorUserID, Role: entity.RoleDoctor}, ActionViewAppointment, true},
		{"doctor cancels", Actor{ID: doctorUserID, Role: entity.RoleDoctor}, ActionCancelAppointment, true},
		{"doctor completes", Actor{ID: doctorUserID, Role: entity.RoleDoctor}, ActionCompleteAppointment, true},
		{"stranger views", Actor{ID: strangerID, Role: entity.RolePatient}, ActionViewAppointment, false},
		{"stranger cancels", Actor{ID: strangerID, Role: entity.RoleDoctor}, ActionCancelAppointment, false},
		{"admin views", Actor{ID: strangerID, Role: entity.RoleAdmin}, ActionViewAppointment, true},
		{"admin completes", Actor{ID: strangerID, Role: entity.RoleAdmin}, ActionCompleteAppointment, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := authorizer.CanAppointment(c.actor, appointment, c.action); got != c.want {
				t.Errorf("CanAppointment = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCanAppointmentProfilePolicy(t *testing.T) {
	doctorUserID := uuid.New()
	doctorProfileID := uuid.New()

	appointment := &entity.Appointment{
		PatientID: uuid.New(),
		DoctorID:  doctorProfileID,
		Doctor:    entity.Doctor{ID: doctorProfileID, UserID: doctorUserID},
	}

	authorizer := NewAuthorizer(DoctorMatchProfile)

	// Under the profile policy the owning user id never matches
	owner := Actor{ID: doctorUserID, Role: entity.RoleDoctor}
	if authorizer.CanAppointment(owner, appointment, ActionCompleteAppointment) {
		t.Error("profile policy should not match the owning user id")
	}

	// Only an actor whose id equals the profile id matches
	profileActor := Actor{ID: doctorProfileID, Role: entity.RoleDoctor}
	if !authorizer.CanAppointment(profileActor, appointment, ActionCompleteAppointment) {
		t.Error("profile policy should match the profile id")
	}
}

func TestCanAppointmentOwnerPolicyWithoutJoinedDoctor(t *testing.T) {
	// Doctor relation not loaded: owner policy must deny rather than
	// accidentally matching the zero uuid
	appointment := &entity.Appointment{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
	}

	authorizer := NewAuthorizer(DoctorMatchOwner)
	actor := Actor{ID: uuid.Nil, Role: entity.RoleDoctor}

	if authorizer.CanAppointment(actor, appointment, ActionCompleteAppointment) {
		t.Error("owner policy must not match when the doctor relation is zero")
	}
}

func TestNewAuthorizerDefaultsToOwner(t *testing.T) {
	authorizer := NewAuthorizer("bogus")
	if authorizer.doctorMatch != DoctorMatchOwner {
		t.Errorf("doctorMatch = %s, want owner", authorizer.doctorMatch)
	}
}

func TestCanModifyDoctor(t *testing.T) {
	ownerID := uuid.New()
	doctor := &entity.Doctor{ID: uuid.New(), UserID: ownerID}

	authorizer := NewAuthorizer(DoctorMatchOwner)

	if !authorizer.CanModifyDoctor(Actor{ID: ownerID, Role: entity.RoleDoctor}, doctor) {
		t.Error("owner should be allowed to modify their profile")
	}
	if authorizer.CanModifyDoctor(Actor{ID: uuid.New(), Role: entity.RoleDoctor}, doctor) {
		t.Error("another doctor should not modify the profile")
	}
	if !authorizer.CanModifyDoctor(Actor{ID: uuid.New(), Role: entity.RoleAdmin}, doctor) {
		t.Error("admin should be allowed to modify any profile")
	}
}
