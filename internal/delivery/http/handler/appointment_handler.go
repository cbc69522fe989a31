package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/response"
	"doctor-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorUnavailable:
			response.Error(w, http.StatusBadRequest, "Doctor is not accepting appointments", nil)
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Time slot is already booked")
		case usecase.ErrPatientSlotTaken:
			response.Conflict(w, "You already have an appointment at this time")
		case usecase.ErrInvalidAppointmentDay:
			response.Error(w, http.StatusBadRequest, "Invalid appointment date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	filter, err := appointmentFilterFromQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date filter, use YYYY-MM-DD", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	filter, err := appointmentFilterFromQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid date filter, use YYYY-MM-DD", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetDoctorAppointments(r.Context(), doctorID, filter)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not authorized to view this doctor's appointments")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := appointmentIDFromPath(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not authorized to view this appointment")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := appointmentIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not authorized to update this appointment")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Time slot is already booked")
		case usecase.ErrAppointmentNotOpen:
			response.Error(w, http.StatusBadRequest, "Appointment is already completed or cancelled", nil)
		case usecase.ErrInvalidAppointmentDay:
			response.Error(w, http.StatusBadRequest, "Invalid appointment date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := appointmentIDFromPath(w, r)
	if !ok {
		return
	}

	// Cancellation reason is optional
	var req dto.CancelAppointmentRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not authorized to cancel this appointment")
		case usecase.ErrAppointmentNotOpen:
			response.Error(w, http.StatusBadRequest, "Appointment is already completed or cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := appointmentIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.CompleteAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CompleteAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Only the appointment's doctor can complete it")
		default:
			response.InternalServerError(w, "Failed to complete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

func appointmentIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return uuid.Nil, false
	}
	return appointmentID, true
}

func appointmentFilterFromQuery(r *http.Request) (entity.AppointmentFilter, error) {
	filter := entity.AppointmentFilter{
		Status: entity.AppointmentStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}
	return filter, nil
}
