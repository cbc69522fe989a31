package converter

import (
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                 appointment.ID,
		PatientID:          appointment.PatientID,
		DoctorID:           appointment.DoctorID,
		AppointmentDate:    appointment.AppointmentDate.Format("2006-01-02"),
		StartTime:          appointment.StartTime,
		EndTime:            appointment.EndTime,
		Status:             string(appointment.Status),
		AppointmentType:    appointment.AppointmentType,
		Reason:             appointment.Reason,
		Symptoms:           appointment.Symptoms,
		Notes:              appointment.Notes,
		PaymentStatus:      appointment.PaymentStatus,
		Amount:             appointment.Amount,
		CancellationReason: appointment.CancellationReason,
		CancelledBy:        appointment.CancelledBy,
		Duration:           appointment.Duration(),
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}

	if appointment.Prescription != nil {
		response.Prescription = prescriptionToResponse(appointment.Prescription)
	}

	// Include joined parties if loaded
	if appointment.Patient.ID != uuid.Nil {
		response.Patient = UserToResponse(&appointment.Patient)
	}
	if appointment.Doctor.ID != uuid.Nil {
		response.Doctor = DoctorToResponse(&appointment.Doctor)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

func prescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	response := &dto.PrescriptionResponse{
		Medications:  make([]dto.MedicationRequest, 0, len(p.Medications)),
		Instructions: p.Instructions,
	}
	for _, m := range p.Medications {
		response.Medications = append(response.Medications, dto.MedicationRequest{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return response
}
