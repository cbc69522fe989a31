package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindRecent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}
