package usecase

import (
	"context"
	"errors"

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
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorUserNotFound  = errors.New("user not found for doctor profile")
	ErrDoctorProfileExists = errors.New("doctor profile already exists for this user")
	ErrLicenseNumberExists = errors.New("license number already exists")
	ErrNotDoctorOwner      = errors.New("not authorized to update this doctor")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	store        repository.Store
	log          *logrus.Logger
	authorizer   *service.Authorizer
	auditService service.AuditService
}

func NewDoctorUsecase(
	store repository.Store,
	log *logrus.Logger,
	authorizer *service.Authorizer,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		store:        store,
		log:          log,
		authorizer:   authorizer,
		auditService: auditService,
	}
}

// CreateDoctor attaches a doctor profile to an existing user. The user's
// role is promoted to doctor in the same transaction, after the profile
// write succeeds.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor := &entity.Doctor{
		UserID:          req.UserID,
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		Experience:      req.Experience,
		Certifications:  certificationsFromRequest(req.Certifications),
		Languages:       req.Languages,
		ConsultationFee: req.ConsultationFee,
		Availability:    timeSlotsFromRequest(req.Availability),
		Bio:             req.Bio,
		IsAvailable:     true,
	}
	if req.Education != nil {
		doctor.Education = entity.Education{
			Degree:           req.Education.Degree,
			Institution:      req.Education.Institution,
			YearOfGraduation: req.Education.YearOfGraduation,
		}
	}

	err := u.store.WithinTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, req.UserID)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", req.UserID, err)
			return err
		}
		if user == nil {
			return ErrDoctorUserNotFound
		}

		existing, err := tx.Doctors().FindByUserID(ctx, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDoctorProfileExists
		}

		existingLicense, err := tx.Doctors().FindByLicenseNumber(ctx, req.LicenseNumber)
		if err != nil {
			return err
		}
		if existingLicense != nil {
			return ErrLicenseNumberExists
		}

		if err := tx.Doctors().Create(ctx, doctor); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return err
		}

		// Promote the owning user only after the profile write succeeded
		user.Role = entity.RoleDoctor
		if err := tx.Users().Update(ctx, user); err != nil {
			u.log.Warnf("Failed to promote user %s to doctor: %+v", user.ID, err)
			return err
		}
		doctor.User = *user

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.store.Doctors().FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.store.Doctors().FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	responses := converter.DoctorsToResponses(doctors)

	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.store.Doctors().FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if !u.authorizer.CanModifyDoctor(actorFromContext(ctx), doctor) {
		return nil, ErrNotDoctorOwner
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Education != nil {
		doctor.Education = entity.Education{
			Degree:           req.Education.Degree,
			Institution:      req.Education.Institution,
			YearOfGraduation: req.Education.YearOfGraduation,
		}
	}
	if req.Certifications != nil {
		doctor.Certifications = certificationsFromRequest(req.Certifications)
	}
	if req.Languages != nil {
		doctor.Languages = req.Languages
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.Availability != nil {
		doctor.Availability = timeSlotsFromRequest(req.Availability)
	}
	if req.Bio != "" {
		doctor.Bio = req.Bio
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}

	err = u.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Doctors().Update(ctx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
			return err
		}
		actorID, _ := middleware.GetUserIDFromContext(ctx)
		if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), oldValue, converter.DoctorToResponse(doctor)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes the profile and demotes the owning user back to
// patient. The user record itself is kept.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	return u.store.WithinTx(ctx, func(tx repository.Store) error {
		doctor, err := tx.Doctors().FindByID(ctx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		oldValue := converter.DoctorToResponse(doctor)

		affected, err := tx.Doctors().Delete(ctx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
			return err
		}
		if affected == 0 {
			return ErrDoctorNotFound
		}

		user, err := tx.Users().FindByID(ctx, doctor.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			user.Role = entity.RolePatient
			if err := tx.Users().Update(ctx, user); err != nil {
				u.log.Warnf("Failed to demote user %s: %+v", user.ID, err)
				return err
			}
		}

		actorID, _ := middleware.GetUserIDFromContext(ctx)
		if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), oldValue, nil); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
}

func certificationsFromRequest(reqs []dto.CertificationRequest) entity.CertificationList {
	if len(reqs) == 0 {
		return nil
	}
	certs := make(entity.CertificationList, 0, len(reqs))
	for _, c := range reqs {
		certs = append(certs, entity.Certification{
			Name:             c.Name,
			IssuingAuthority: c.IssuingAuthority,
			Year:             c.Year,
		})
	}
	return certs
}

func timeSlotsFromRequest(reqs []dto.TimeSlotRequest) entity.TimeSlotList {
	if len(reqs) == 0 {
		return nil
	}
	slots := make(entity.TimeSlotList, 0, len(reqs))
	for _, s := range reqs {
		slots = append(slots, entity.TimeSlot{
			Day:       s.Day,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Enabled:   s.Enabled,
		})
	}
	return slots
}
