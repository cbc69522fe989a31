package usecase

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrDoctorUnavailable     = errors.New("doctor is not available")
	ErrSlotTaken             = errors.New("time slot is already booked")
	ErrPatientSlotTaken      = errors.New("you already have an appointment at this time")
	ErrNotAppointmentParty   = errors.New("not authorized for this appointment")
	ErrAppointmentNotOpen    = errors.New("appointment cannot be cancelled")
	ErrInvalidAppointmentDay = errors.New("invalid appointment date, use YYYY-MM-DD")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	UpdateAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	store        repository.Store
	log          *logrus.Logger
	authorizer   *service.Authorizer
	auditService service.AuditService
}

func NewAppointmentUsecase(
	store repository.Store,
	log *logrus.Logger,
	authorizer *service.Authorizer,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		store:        store,
		log:          log,
		authorizer:   authorizer,
		auditService: auditService,
	}
}

// CreateAppointment books a slot with a doctor for the logged-in patient.
//
// Flow:
// 1. Doctor must exist and be accepting bookings
// 2. The doctor must not already hold an active appointment for the slot
// 3. Neither must the patient
// 4. Insert with status pending, amount copied from the doctor's fee
//
// Steps 2-3 are check-then-act; the storage layer's slot uniqueness backstop
// catches the race where two concurrent creates both pass the checks.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDay
	}

	doctor, err := u.store.Doctors().FindByID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsAvailable {
		return nil, ErrDoctorUnavailable
	}

	doctorBusy, err := u.store.Appointments().HasActiveDoctorSlot(ctx, req.DoctorID, date, req.StartTime)
	if err != nil {
		u.log.Warnf("Failed to check doctor slot: %+v", err)
		return nil, err
	}
	if doctorBusy {
		return nil, ErrSlotTaken
	}

	patientBusy, err := u.store.Appointments().HasActivePatientSlot(ctx, patientID, date, req.StartTime)
	if err != nil {
		u.log.Warnf("Failed to check patient slot: %+v", err)
		return nil, err
	}
	if patientBusy {
		return nil, ErrPatientSlotTaken
	}

	appointmentType := req.AppointmentType
	if appointmentType == "" {
		appointmentType = entity.AppointmentTypeInPerson
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          entity.AppointmentStatusPending,
		AppointmentType: appointmentType,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		PaymentStatus:   entity.PaymentStatusPending,
		Amount:          doctor.ConsultationFee,
	}

	err = u.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Appointments().Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrSlotTaken
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}
		if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with patient and doctor joined for the response
	full, err := u.store.Appointments().FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, date=%s %s", appointment.ID, req.DoctorID, req.AppointmentDate, req.StartTime)
	return converter.AppointmentToResponse(full), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !u.authorizer.CanAppointment(actorFromContext(ctx), appointment, service.ActionViewAppointment) {
		return nil, ErrNotAppointmentParty
	}

	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments lists the caller's own appointments: for a doctor the
// ones on their doctor profile, for everyone else the ones they booked.
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	actor := actorFromContext(ctx)

	if actor.Role == entity.RoleDoctor {
		doctor, err := u.store.Doctors().FindByUserID(ctx, actor.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile for user %s: %+v", actor.ID, err)
			return nil, err
		}
		if doctor != nil {
			return u.GetDoctorAppointments(ctx, doctor.ID, filter)
		}
	}

	return u.GetPatientAppointments(ctx, actor.ID, filter)
}

func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.store.Appointments().FindByPatient(ctx, patientID, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return listResponse(appointments), nil
}

// GetDoctorAppointments lists a doctor's calendar. Only that doctor or an
// admin may read it.
func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	actor := actorFromContext(ctx)
	if actor.Role != entity.RoleAdmin {
		doctor, err := u.store.Doctors().FindByID(ctx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		if doctor.UserID != actor.ID {
			return nil, ErrNotAppointmentParty
		}
	}

	appointments, err := u.store.Appointments().FindByDoctor(ctx, doctorID, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return listResponse(appointments), nil
}

// UpdateAppointment merges the submitted fields into the appointment. Beyond
// the authorization check this is deliberately permissive; amount stays
// untouched regardless of input.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	actor := actorFromContext(ctx)
	if !u.authorizer.CanAppointment(actor, appointment, service.ActionUpdateAppointment) {
		return nil, ErrNotAppointmentParty
	}

	oldValue := converter.AppointmentToResponse(appointment)

	if req.AppointmentDate != "" {
		date, err := time.Parse("2006-01-02", req.AppointmentDate)
		if err != nil {
			return nil, ErrInvalidAppointmentDay
		}
		appointment.AppointmentDate = date
	}
	if req.StartTime != "" {
		appointment.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		appointment.EndTime = req.EndTime
	}
	if req.AppointmentType != "" {
		appointment.AppointmentType = req.AppointmentType
	}
	if req.Reason != "" {
		appointment.Reason = req.Reason
	}
	if req.Symptoms != nil {
		appointment.Symptoms = req.Symptoms
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}
	if req.Status != "" && req.Status != string(appointment.Status) {
		// Terminal states are final. An update may still move an open
		// appointment, e.g. pending to confirmed.
		if appointment.Status.IsTerminal() {
			return nil, ErrAppointmentNotOpen
		}
		appointment.Status = entity.AppointmentStatus(req.Status)
	}
	if req.PaymentStatus != "" {
		appointment.PaymentStatus = req.PaymentStatus
	}

	if err := u.saveWithAudit(ctx, appointment, actor.ID, entity.AuditActionAppointmentUpdate, oldValue); err != nil {
		return nil, err
	}

	return u.reload(ctx, appointment)
}

// CancelAppointment moves an open appointment to cancelled, recording the
// reason and which side of the appointment asked for it.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	actor := actorFromContext(ctx)
	if !u.authorizer.CanAppointment(actor, appointment, service.ActionCancelAppointment) {
		return nil, ErrNotAppointmentParty
	}

	if !appointment.CanCancel() {
		return nil, ErrAppointmentNotOpen
	}

	oldValue := converter.AppointmentToResponse(appointment)
	appointment.Cancel(req.CancellationReason, cancelledBy(actor, appointment))

	if err := u.saveWithAudit(ctx, appointment, actor.ID, entity.AuditActionAppointmentCancel, oldValue); err != nil {
		return nil, err
	}

	u.log.Infof("Appointment cancelled: id=%s, by=%s", appointmentID, appointment.CancelledBy)
	return u.reload(ctx, appointment)
}

// CompleteAppointment records the visit outcome. Only the appointment's
// doctor or an admin may complete; the patient never can.
func (u *appointmentUsecase) CompleteAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	actor := actorFromContext(ctx)
	if !u.authorizer.CanAppointment(actor, appointment, service.ActionCompleteAppointment) {
		return nil, ErrNotAppointmentParty
	}

	oldValue := converter.AppointmentToResponse(appointment)

	prescription := &entity.Prescription{
		Medications:  make([]entity.Medication, 0, len(req.Prescription.Medications)),
		Instructions: req.Prescription.Instructions,
	}
	for _, m := range req.Prescription.Medications {
		prescription.Medications = append(prescription.Medications, entity.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	appointment.Complete(prescription, req.Notes)

	if err := u.saveWithAudit(ctx, appointment, actor.ID, entity.AuditActionAppointmentDone, oldValue); err != nil {
		return nil, err
	}

	u.log.Infof("Appointment completed: id=%s", appointmentID)
	return u.reload(ctx, appointment)
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.store.Appointments().FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) saveWithAudit(ctx context.Context, appointment *entity.Appointment, actorID uuid.UUID, action string, oldValue interface{}) error {
	return u.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Appointments().Update(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrSlotTaken
			}
			u.log.Warnf("Failed to update appointment %s: %+v", appointment.ID, err)
			return err
		}
		if err := u.auditService.LogUpdate(ctx, tx, &actorID, action, "appointment", appointment.ID.String(), oldValue, converter.AppointmentToResponse(appointment)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
}

func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) (*dto.AppointmentResponse, error) {
	full, err := u.store.Appointments().FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// cancelledBy derives who asked for the cancellation, admin taking precedence
func cancelledBy(actor service.Actor, appointment *entity.Appointment) string {
	switch {
	case actor.Role == entity.RoleAdmin:
		return entity.CancelledByAdmin
	case actor.ID == appointment.PatientID:
		return entity.CancelledByPatient
	default:
		return entity.CancelledByDoctor
	}
}

func listResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	responses := converter.AppointmentsToResponses(appointments)
	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}

// actorFromContext builds the authorization actor from the authenticated
// request context.
func actorFromContext(ctx context.Context) service.Actor {
	id, _ := middleware.GetUserIDFromContext(ctx)
	role, _ := middleware.GetUserRoleFromContext(ctx)
	return service.Actor{ID: id, Role: role}
}
