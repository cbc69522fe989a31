package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
)

func seedParties(t *testing.T, store *Store) (patientID, doctorID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	patient := &entity.User{Name: "Pat", Email: "pat@example.com", Role: entity.RolePatient}
	if err := store.Users().Create(ctx, patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}

	doctorUser := &entity.User{Name: "Dr. Doe", Email: "doe@example.com", Role: entity.RoleDoctor}
	if err := store.Users().Create(ctx, doctorUser); err != nil {
		t.Fatalf("create doctor user: %v", err)
	}

	doctor := &entity.Doctor{UserID: doctorUser.ID, Specialization: "cardiology", LicenseNumber: "LIC-1", IsAvailable: true}
	if err := store.Doctors().Create(ctx, doctor); err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	return patient.ID, doctor.ID
}

func newAppointment(patientID, doctorID uuid.UUID, date time.Time, start string) *entity.Appointment {
	return &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         "10:30",
		Status:          entity.AppointmentStatusPending,
		AppointmentType: entity.AppointmentTypeInPerson,
		Reason:          "checkup",
	}
}

func TestAppointmentCreateRejectsTakenSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	first := newAppointment(patientID, doctorID, date, "10:00")
	if err := store.Appointments().Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	otherPatient := &entity.User{Name: "Other", Email: "other@example.com", Role: entity.RolePatient}
	if err := store.Users().Create(ctx, otherPatient); err != nil {
		t.Fatalf("create other patient: %v", err)
	}

	second := newAppointment(otherPatient.ID, doctorID, date, "10:00")
	if err := store.Appointments().Create(ctx, second); !errors.Is(err, domainRepo.ErrSlotTaken) {
		t.Fatalf("second create err = %v, want ErrSlotTaken", err)
	}

	// Other start time on the same day is fine
	third := newAppointment(otherPatient.ID, doctorID, date, "11:00")
	if err := store.Appointments().Create(ctx, third); err != nil {
		t.Fatalf("third create: %v", err)
	}
}

func TestAppointmentUpdateRejectsTakenSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	first := newAppointment(patientID, doctorID, date, "10:00")
	if err := store.Appointments().Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	otherPatient := &entity.User{Name: "Other", Email: "other@example.com", Role: entity.RolePatient}
	if err := store.Users().Create(ctx, otherPatient); err != nil {
		t.Fatalf("create other patient: %v", err)
	}
	second := newAppointment(otherPatient.ID, doctorID, date, "11:00")
	if err := store.Appointments().Create(ctx, second); err != nil {
		t.Fatalf("second create: %v", err)
	}

	// Rescheduling onto the occupied slot must fail like a create would
	second.StartTime = "10:00"
	if err := store.Appointments().Update(ctx, second); !errors.Is(err, domainRepo.ErrSlotTaken) {
		t.Fatalf("reschedule err = %v, want ErrSlotTaken", err)
	}

	// Updating an appointment in place keeps working
	first.Notes = "fasting required"
	if err := store.Appointments().Update(ctx, first); err != nil {
		t.Fatalf("in-place update: %v", err)
	}

	// Once the holder cancels, the slot opens up for the reschedule
	first.Status = entity.AppointmentStatusCancelled
	if err := store.Appointments().Update(ctx, first); err != nil {
		t.Fatalf("cancel update: %v", err)
	}
	if err := store.Appointments().Update(ctx, second); err != nil {
		t.Fatalf("reschedule after cancel: %v", err)
	}
}

func TestAppointmentCreateCancelledSlotIsFree(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	first := newAppointment(patientID, doctorID, date, "10:00")
	if err := store.Appointments().Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	first.Cancel("conflict", entity.CancelledByPatient)
	if err := store.Appointments().Update(ctx, first); err != nil {
		t.Fatalf("cancel update: %v", err)
	}

	rebooked := newAppointment(patientID, doctorID, date, "10:00")
	if err := store.Appointments().Create(ctx, rebooked); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

func TestAppointmentCreateConcurrentSameSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	_, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		patient := &entity.User{Name: "P", Email: uuid.NewString() + "@example.com", Role: entity.RolePatient}
		if err := store.Users().Create(ctx, patient); err != nil {
			t.Fatalf("create patient: %v", err)
		}
		wg.Add(1)
		go func(i int, patientID uuid.UUID) {
			defer wg.Done()
			errs[i] = store.Appointments().Create(ctx, newAppointment(patientID, doctorID, date, "10:00"))
		}(i, patient.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainRepo.ErrSlotTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}
}

func TestFindByPatientFilterAndOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)

	day1 := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	for _, spec := range []struct {
		date  time.Time
		start string
	}{
		{day2, "09:00"},
		{day1, "14:00"},
		{day1, "09:00"},
	} {
		a := newAppointment(patientID, doctorID, spec.date, spec.start)
		if err := store.Appointments().Create(ctx, a); err != nil {
			t.Fatalf("create %s %s: %v", spec.date, spec.start, err)
		}
	}

	all, err := store.Appointments().FindByPatient(ctx, patientID, entity.AppointmentFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	// Ascending by date then start time
	wantOrder := []string{"09:00", "14:00", "09:00"}
	for i, a := range all {
		if a.StartTime != wantOrder[i] {
			t.Errorf("position %d: start = %s, want %s", i, a.StartTime, wantOrder[i])
		}
	}
	if !all[0].AppointmentDate.Equal(day1) || !all[2].AppointmentDate.Equal(day2) {
		t.Error("appointments not ordered by date")
	}

	// Day filter matches the whole calendar day
	filtered, err := store.Appointments().FindByPatient(ctx, patientID, entity.AppointmentFilter{Date: &day1})
	if err != nil {
		t.Fatalf("filtered find: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(filtered))
	}

	// Joined parties come back with listings
	if filtered[0].Doctor.ID != doctorID {
		t.Error("doctor relation not joined")
	}
	if filtered[0].Patient.ID != patientID {
		t.Error("patient relation not joined")
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx domainRepo.Store) error {
		if err := tx.Appointments().Create(ctx, newAppointment(patientID, doctorID, date, "10:00")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	all, err := store.Appointments().FindByPatient(ctx, patientID, entity.AppointmentFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("len = %d after rollback, want 0", len(all))
	}
}

func TestWithinTxCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	patientID, doctorID := seedParties(t, store)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	err := store.WithinTx(ctx, func(tx domainRepo.Store) error {
		return tx.Appointments().Create(ctx, newAppointment(patientID, doctorID, date, "10:00"))
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	all, err := store.Appointments().FindByPatient(ctx, patientID, entity.AppointmentFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
}

func TestUserEmailUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := &entity.User{Name: "A", Email: "dup@example.com"}
	if err := store.Users().Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := &entity.User{Name: "B", Email: "dup@example.com"}
	if err := store.Users().Create(ctx, second); !errors.Is(err, domainRepo.ErrDuplicateEmail) {
		t.Fatalf("duplicate create err = %v, want ErrDuplicateEmail", err)
	}

	// Updating another user to the taken email is rejected too
	third := &entity.User{Name: "C", Email: "c@example.com"}
	if err := store.Users().Create(ctx, third); err != nil {
		t.Fatalf("third create: %v", err)
	}
	third.Email = "dup@example.com"
	if err := store.Users().Update(ctx, third); !errors.Is(err, domainRepo.ErrDuplicateEmail) {
		t.Fatalf("update err = %v, want ErrDuplicateEmail", err)
	}
}
