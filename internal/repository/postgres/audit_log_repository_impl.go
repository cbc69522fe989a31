package postgres

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
