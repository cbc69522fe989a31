package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error)
	FindByLicenseNumber(ctx context.Context, licenseNumber string) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
