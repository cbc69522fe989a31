package memory

import (
	"context"
	"time"

	"doctor-appointment-api/internal/domain/entity"
)

type auditLogRepository struct {
	store *Store
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.store.write(func(d *data) error {
		d.auditSeq++
		log.ID = d.auditSeq
		log.CreatedAt = time.Now()
		d.auditLogs = append(d.auditLogs, *log)
		return nil
	})
}

func (r *auditLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	r.store.read(func(d *data) {
		n := len(d.auditLogs)
		for i := n - 1; i >= 0 && len(logs) < limit; i-- {
			logs = append(logs, d.auditLogs[i])
		}
	})
	return logs, nil
}
