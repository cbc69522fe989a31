package postgres

import (
	"context"
	"errors"
	"strings"

	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store is the durable repository.Store backed by PostgreSQL via GORM.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() domainRepo.UserRepository {
	return &userRepository{db: s.db}
}

func (s *Store) Doctors() domainRepo.DoctorRepository {
	return &doctorRepository{db: s.db}
}

func (s *Store) Appointments() domainRepo.AppointmentRepository {
	return &appointmentRepository{db: s.db}
}

func (s *Store) AuditLogs() domainRepo.AuditLogRepository {
	return &auditLogRepository{db: s.db}
}

// WithinTx runs fn against a store bound to a single database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(domainRepo.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// isUniqueViolation checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains constraintName
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
