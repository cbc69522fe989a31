package converter

import (
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		Specialization:  doctor.Specialization,
		LicenseNumber:   doctor.LicenseNumber,
		Experience:      doctor.Experience,
		Languages:       doctor.Languages,
		ConsultationFee: doctor.ConsultationFee,
		Bio:             doctor.Bio,
		Rating:          doctor.Rating,
		TotalReviews:    doctor.TotalReviews,
		IsAvailable:     doctor.IsAvailable,
		CreatedAt:       doctor.CreatedAt,
		UpdatedAt:       doctor.UpdatedAt,
	}

	if doctor.Education != (entity.Education{}) {
		response.Education = &dto.EducationRequest{
			Degree:           doctor.Education.Degree,
			Institution:      doctor.Education.Institution,
			YearOfGraduation: doctor.Education.YearOfGraduation,
		}
	}

	for _, c := range doctor.Certifications {
		response.Certifications = append(response.Certifications, dto.CertificationRequest{
			Name:             c.Name,
			IssuingAuthority: c.IssuingAuthority,
			Year:             c.Year,
		})
	}

	for _, s := range doctor.Availability {
		response.Availability = append(response.Availability, dto.TimeSlotResponse{
			Day:       s.Day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Enabled:   s.Enabled,
		})
	}

	// Include owning user info if joined
	if doctor.User.ID != uuid.Nil {
		response.User = UserToResponse(&doctor.User)
	}

	return response
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
