package usecase

import (
	"context"
	"testing"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/repository/memory"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newDoctorFixture(t *testing.T) (DoctorUsecase, *memory.Store, *entity.User, *entity.User) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	admin := &entity.User{Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin}
	candidate := &entity.User{Name: "Jo Roe", Email: "jo@example.com", Role: entity.RolePatient}
	for _, u := range []*entity.User{admin, candidate} {
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("create user %s: %v", u.Email, err)
		}
	}

	log := testLogger()
	usecase := NewDoctorUsecase(store, log, service.NewAuthorizer(service.DoctorMatchOwner), service.NewAuditService(log))
	return usecase, store, admin, candidate
}

func adminContext(admin *entity.User) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, admin.ID)
	return context.WithValue(ctx, middleware.UserRoleKey, admin.Role)
}

func createDoctorRequest(userID uuid.UUID) *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		UserID:          userID,
		Specialization:  "dermatology",
		LicenseNumber:   "LIC-42",
		Experience:      7,
		ConsultationFee: decimal.NewFromInt(120),
		Languages:       []string{"en", "es"},
		Availability: []dto.TimeSlotRequest{
			{Day: "monday", StartTime: "09:00", EndTime: "17:00", Enabled: true},
		},
	}
}

func TestCreateDoctorPromotesUser(t *testing.T) {
	usecase, store, admin, candidate := newDoctorFixture(t)

	created, err := usecase.CreateDoctor(adminContext(admin), createDoctorRequest(candidate.ID))
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	if created.UserID != candidate.ID {
		t.Errorf("user id = %s, want %s", created.UserID, candidate.ID)
	}
	if !created.IsAvailable {
		t.Error("new doctor should accept bookings")
	}

	user, err := store.Users().FindByID(context.Background(), candidate.ID)
	if err != nil || user == nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Role != entity.RoleDoctor {
		t.Errorf("role = %s, want doctor after profile create", user.Role)
	}
}

func TestCreateDoctorRejectsDuplicates(t *testing.T) {
	usecase, store, admin, candidate := newDoctorFixture(t)
	ctx := adminContext(admin)

	if _, err := usecase.CreateDoctor(ctx, createDoctorRequest(candidate.ID)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same user again
	req := createDoctorRequest(candidate.ID)
	req.LicenseNumber = "LIC-43"
	if _, err := usecase.CreateDoctor(ctx, req); err != ErrDoctorProfileExists {
		t.Errorf("duplicate user err = %v, want ErrDoctorProfileExists", err)
	}

	// Same license on another user
	second := &entity.User{Name: "Sam", Email: "sam@example.com", Role: entity.RolePatient}
	if err := store.Users().Create(context.Background(), second); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	if _, err := usecase.CreateDoctor(ctx, createDoctorRequest(second.ID)); err != ErrLicenseNumberExists {
		t.Errorf("duplicate license err = %v, want ErrLicenseNumberExists", err)
	}

	// Unknown user
	req = createDoctorRequest(uuid.New())
	req.LicenseNumber = "LIC-44"
	if _, err := usecase.CreateDoctor(ctx, req); err != ErrDoctorUserNotFound {
		t.Errorf("unknown user err = %v, want ErrDoctorUserNotFound", err)
	}
}

func TestUpdateDoctorOwnership(t *testing.T) {
	usecase, store, admin, candidate := newDoctorFixture(t)

	created, err := usecase.CreateDoctor(adminContext(admin), createDoctorRequest(candidate.ID))
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	// The owning user may update their own profile
	ownerCtx := context.WithValue(context.Background(), middleware.UserIDKey, candidate.ID)
	ownerCtx = context.WithValue(ownerCtx, middleware.UserRoleKey, entity.RoleDoctor)

	newFee := decimal.NewFromInt(180)
	updated, err := usecase.UpdateDoctor(ownerCtx, created.ID, &dto.UpdateDoctorRequest{
		ConsultationFee: &newFee,
		Bio:             "board certified",
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if !updated.ConsultationFee.Equal(newFee) {
		t.Errorf("fee = %s, want 180", updated.ConsultationFee)
	}
	if updated.Bio != "board certified" {
		t.Errorf("bio = %q", updated.Bio)
	}

	// Another doctor may not
	stranger := &entity.User{Name: "Sly", Email: "sly@example.com", Role: entity.RoleDoctor}
	if err := store.Users().Create(context.Background(), stranger); err != nil {
		t.Fatalf("create stranger: %v", err)
	}
	strangerCtx := context.WithValue(context.Background(), middleware.UserIDKey, stranger.ID)
	strangerCtx = context.WithValue(strangerCtx, middleware.UserRoleKey, entity.RoleDoctor)

	if _, err := usecase.UpdateDoctor(strangerCtx, created.ID, &dto.UpdateDoctorRequest{Bio: "mine now"}); err != ErrNotDoctorOwner {
		t.Errorf("stranger update err = %v, want ErrNotDoctorOwner", err)
	}
}

func TestDeleteDoctorDemotesUser(t *testing.T) {
	usecase, store, admin, candidate := newDoctorFixture(t)
	ctx := adminContext(admin)

	created, err := usecase.CreateDoctor(ctx, createDoctorRequest(candidate.ID))
	if err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	if err := usecase.DeleteDoctor(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Profile gone, user kept and demoted
	if _, err := usecase.GetDoctor(ctx, created.ID); err != ErrDoctorNotFound {
		t.Errorf("get after delete err = %v, want ErrDoctorNotFound", err)
	}
	user, err := store.Users().FindByID(context.Background(), candidate.ID)
	if err != nil || user == nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Role != entity.RolePatient {
		t.Errorf("role = %s, want patient after profile delete", user.Role)
	}

	if err := usecase.DeleteDoctor(ctx, created.ID); err != ErrDoctorNotFound {
		t.Errorf("second delete err = %v, want ErrDoctorNotFound", err)
	}
}

func TestGetAllDoctorsFilter(t *testing.T) {
	usecase, store, admin, candidate := newDoctorFixture(t)
	ctx := adminContext(admin)

	if _, err := usecase.CreateDoctor(ctx, createDoctorRequest(candidate.ID)); err != nil {
		t.Fatalf("create doctor: %v", err)
	}

	second := &entity.User{Name: "Sam", Email: "sam@example.com", Role: entity.RolePatient}
	if err := store.Users().Create(context.Background(), second); err != nil {
		t.Fatalf("create second user: %v", err)
	}
	req := createDoctorRequest(second.ID)
	req.Specialization = "cardiology"
	req.LicenseNumber = "LIC-43"
	if _, err := usecase.CreateDoctor(ctx, req); err != nil {
		t.Fatalf("create second doctor: %v", err)
	}

	all, err := usecase.GetAllDoctors(ctx, entity.DoctorFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("total = %d, want 2", all.Total)
	}

	// Substring match is case-insensitive
	derm, err := usecase.GetAllDoctors(ctx, entity.DoctorFilter{Specialization: "DERM"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if derm.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", derm.Total)
	}
	if derm.Doctors[0].Specialization != "dermatology" {
		t.Errorf("specialization = %s", derm.Doctors[0].Specialization)
	}
}
