package usecase

import (
	"context"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const defaultAuditLogLimit = 100

type AuditLogUsecase interface {
	GetRecentAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	store repository.Store
	log   *logrus.Logger
}

func NewAuditLogUsecase(store repository.Store, log *logrus.Logger) AuditLogUsecase {
	return &auditLogUsecase{store: store, log: log}
}

func (u *auditLogUsecase) GetRecentAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLogLimit
	}

	logs, err := u.store.AuditLogs().FindRecent(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	responses := converter.AuditLogsToResponses(logs)
	return &dto.AuditLogListResponse{
		Logs:  responses,
		Total: len(responses),
	}, nil
}
