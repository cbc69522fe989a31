package memory

import (
	"context"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.write(func(d *data) error {
		for _, u := range d.users {
			if u.Email == user.Email {
				return domainRepo.ErrDuplicateEmail
			}
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		d.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	r.store.read(func(d *data) {
		if u, ok := d.users[id]; ok {
			found = &u
		}
	})
	return found, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var found *entity.User
	r.store.read(func(d *data) {
		for _, u := range d.users {
			if u.Email == email {
				user := u
				found = &user
				break
			}
		}
	})
	return found, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.store.write(func(d *data) error {
		for id, u := range d.users {
			if id != user.ID && u.Email == user.Email {
				return domainRepo.ErrDuplicateEmail
			}
		}
		user.UpdatedAt = time.Now()
		d.users[user.ID] = *user
		return nil
	})
}
