package memory

import (
	"context"
	"sync"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
)

// Store is the ephemeral in-process repository.Store. It is selected at
// startup when the durable store is unreachable or explicitly configured;
// everything it holds is lost on process exit.
//
// A single RWMutex guards all collections. That also makes appointment
// creation check-and-insert atomic, so the slot uniqueness invariant holds
// without a database index.
type Store struct {
	mu   *sync.RWMutex
	data *data

	// inTx marks a transactional view that already holds the write lock
	inTx bool
}

type data struct {
	users        map[uuid.UUID]entity.User
	doctors      map[uuid.UUID]entity.Doctor
	appointments map[uuid.UUID]entity.Appointment
	auditLogs    []entity.AuditLog
	auditSeq     int64
}

func NewStore() *Store {
	return &Store{
		mu: &sync.RWMutex{},
		data: &data{
			users:        make(map[uuid.UUID]entity.User),
			doctors:      make(map[uuid.UUID]entity.Doctor),
			appointments: make(map[uuid.UUID]entity.Appointment),
		},
	}
}

func (s *Store) Users() domainRepo.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Doctors() domainRepo.DoctorRepository {
	return &doctorRepository{store: s}
}

func (s *Store) Appointments() domainRepo.AppointmentRepository {
	return &appointmentRepository{store: s}
}

func (s *Store) AuditLogs() domainRepo.AuditLogRepository {
	return &auditLogRepository{store: s}
}

// WithinTx serializes fn against all other writers and rolls the collections
// back to a snapshot when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(domainRepo.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &Store{mu: s.mu, data: s.data, inTx: true}

	if err := fn(txStore); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (d *data) clone() *data {
	c := &data{
		users:        make(map[uuid.UUID]entity.User, len(d.users)),
		doctors:      make(map[uuid.UUID]entity.Doctor, len(d.doctors)),
		appointments: make(map[uuid.UUID]entity.Appointment, len(d.appointments)),
		auditLogs:    append([]entity.AuditLog(nil), d.auditLogs...),
		auditSeq:     d.auditSeq,
	}
	for id, u := range d.users {
		c.users[id] = u
	}
	for id, doc := range d.doctors {
		c.doctors[id] = doc
	}
	for id, a := range d.appointments {
		c.appointments[id] = a
	}
	return c
}

func (s *Store) read(fn func(*data)) {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.data)
}

func (s *Store) write(fn func(*data) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}
