package usecase

import (
	"context"
	"testing"
	"time"

	"doctor-appointment-api/config"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/infrastructure/cache"
	"doctor-appointment-api/internal/repository/memory"
	"doctor-appointment-api/internal/service"
	"doctor-appointment-api/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthUsecase, *memory.Store, *jwt.JWTService) {
	t.Helper()
	store := memory.NewStore()
	log := testLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	tokenStore := cache.NewMemoryTokenStore()
	auditService := service.NewAuditService(log)
	return NewAuthUsecase(store, log, jwtService, tokenStore, auditService), store, jwtService
}

func register(t *testing.T, usecase AuthUsecase, email string) *dto.AuthResponse {
	t.Helper()
	auth, err := usecase.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Pat Doe",
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return auth
}

func TestRegister(t *testing.T) {
	usecase, store, _ := newAuthFixture(t)

	auth := register(t, usecase, "pat@example.com")

	if auth.User.Role != entity.RolePatient {
		t.Errorf("role = %s, want patient default", auth.User.Role)
	}
	if auth.AccessToken == "" || auth.RefreshToken == "" {
		t.Error("tokens not issued")
	}

	// Stored password is a bcrypt hash of the submitted one
	user, err := store.Users().FindByEmail(context.Background(), "pat@example.com")
	if err != nil || user == nil {
		t.Fatalf("find registered user: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	usecase, _, _ := newAuthFixture(t)
	register(t, usecase, "pat@example.com")

	_, err := usecase.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Imposter",
		Email:    "pat@example.com",
		Password: "secret123",
	})
	if err != ErrEmailAlreadyExists {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	usecase, _, _ := newAuthFixture(t)
	register(t, usecase, "pat@example.com")

	auth, err := usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if auth.AccessToken == "" {
		t.Error("no access token")
	}

	if _, err := usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "wrong",
	}); err != ErrInvalidCredentials {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}

	if _, err := usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	}); err != ErrInvalidCredentials {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	usecase, _, _ := newAuthFixture(t)
	auth := register(t, usecase, "pat@example.com")

	first, err := usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: auth.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if first.AccessToken == "" || first.RefreshToken == "" {
		t.Fatal("rotated pair incomplete")
	}

	// The used refresh token is revoked
	_, err = usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: auth.RefreshToken,
	})
	if err != ErrTokenRevoked {
		t.Fatalf("reused refresh err = %v, want ErrTokenRevoked", err)
	}

	// An access token is not accepted as a refresh token
	_, err = usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: auth.AccessToken,
	})
	if err != ErrInvalidToken {
		t.Fatalf("access-as-refresh err = %v, want ErrInvalidToken", err)
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	usecase, _, jwtService := newAuthFixture(t)
	auth := register(t, usecase, "pat@example.com")

	claims, err := jwtService.ValidateToken(auth.AccessToken)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}

	ctx := context.WithValue(context.Background(), middleware.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, claims.TokenID)

	if err := usecase.Logout(ctx, auth.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The refresh token no longer works afterwards
	_, err = usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: auth.RefreshToken,
	})
	if err != ErrTokenRevoked {
		t.Fatalf("refresh after logout err = %v, want ErrTokenRevoked", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	usecase, _, _ := newAuthFixture(t)
	auth := register(t, usecase, "pat@example.com")
	register(t, usecase, "taken@example.com")

	ctx := context.WithValue(context.Background(), middleware.UserIDKey, auth.User.ID)

	updated, err := usecase.UpdateProfile(ctx, &dto.UpdateProfileRequest{
		Name:  "Pat Updated",
		Phone: "555-0100",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Pat Updated" || updated.Phone != "555-0100" {
		t.Errorf("profile not merged: %+v", updated)
	}

	// Switching to an email another user holds is rejected
	_, err = usecase.UpdateProfile(ctx, &dto.UpdateProfileRequest{Email: "taken@example.com"})
	if err != ErrEmailAlreadyExists {
		t.Fatalf("taken email err = %v, want ErrEmailAlreadyExists", err)
	}
}
