package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type doctorRepository struct {
	store *Store
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return r.store.write(func(d *data) error {
		if doctor.ID == uuid.Nil {
			doctor.ID = uuid.New()
		}
		now := time.Now()
		doctor.CreatedAt = now
		doctor.UpdatedAt = now
		stored := *doctor
		stored.User = entity.User{}
		d.doctors[doctor.ID] = stored
		return nil
	})
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var found *entity.Doctor
	r.store.read(func(d *data) {
		if doc, ok := d.doctors[id]; ok {
			joinUser(d, &doc)
			found = &doc
		}
	})
	return found, nil
}

func (r *doctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	var found *entity.Doctor
	r.store.read(func(d *data) {
		for _, doc := range d.doctors {
			if doc.UserID == userID {
				doctor := doc
				joinUser(d, &doctor)
				found = &doctor
				break
			}
		}
	})
	return found, nil
}

func (r *doctorRepository) FindByLicenseNumber(ctx context.Context, licenseNumber string) (*entity.Doctor, error) {
	var found *entity.Doctor
	r.store.read(func(d *data) {
		for _, doc := range d.doctors {
			if doc.LicenseNumber == licenseNumber {
				doctor := doc
				found = &doctor
				break
			}
		}
	})
	return found, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	r.store.read(func(d *data) {
		for _, doc := range d.doctors {
			if filter.OnlyAvailable && !doc.IsAvailable {
				continue
			}
			if filter.Specialization != "" &&
				!strings.Contains(strings.ToLower(doc.Specialization), strings.ToLower(filter.Specialization)) {
				continue
			}
			if filter.MinRating > 0 && doc.Rating < filter.MinRating {
				continue
			}
			doctor := doc
			joinUser(d, &doctor)
			doctors = append(doctors, doctor)
		}
	})
	sort.Slice(doctors, func(i, j int) bool {
		return doctors[i].Rating > doctors[j].Rating
	})
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	return r.store.write(func(d *data) error {
		doctor.UpdatedAt = time.Now()
		stored := *doctor
		stored.User = entity.User{}
		d.doctors[doctor.ID] = stored
		return nil
	})
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.store.write(func(d *data) error {
		if _, ok := d.doctors[id]; ok {
			delete(d.doctors, id)
			affected = 1
		}
		return nil
	})
	return affected, err
}

func joinUser(d *data, doctor *entity.Doctor) {
	if u, ok := d.users[doctor.UserID]; ok {
		doctor.User = u
	}
}
