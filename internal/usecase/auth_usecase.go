package usecase

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/infrastructure/cache"
	"doctor-appointment-api/internal/service"
	"doctor-appointment-api/pkg/jwt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type authUsecase struct {
	store        repository.Store
	log          *logrus.Logger
	jwtService   *jwt.JWTService
	tokenStore   cache.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	store repository.Store,
	log *logrus.Logger,
	jwtService *jwt.JWTService,
	tokenStore cache.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		store:        store,
		log:          log,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := u.store.Users().FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check existing user: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		dob = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RolePatient
	}

	user := &entity.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hashedPassword),
		Phone:       req.Phone,
		Role:        role,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
	}

	err = u.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return err
		}
		if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
			// Don't fail registration for audit log errors
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := u.store.Users().FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	if accessTokenID, ok := middleware.GetTokenIDFromContext(ctx); ok {
		if err := u.tokenStore.Revoke(ctx, userID, accessTokenID, jwt.AccessToken); err != nil {
			u.log.Warnf("Failed to revoke access token: %+v", err)
			return err
		}
	}

	// Revoke the refresh token too when the client sends it along
	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, userID, claims.TokenID, jwt.RefreshToken); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
			}
		}
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Reload the user so a role changed since issuance is reflected
	user, err := u.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// Rotate: revoke the used refresh token before issuing a new pair
	if err := u.tokenStore.Revoke(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return nil, err
	}

	auth, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}

func (u *authUsecase) GetProfile(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	user, err := u.store.Users().FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	user, err := u.store.Users().FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldValue := converter.UserToResponse(user)

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		existing, err := u.store.Users().FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		user.DateOfBirth = &dob
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	err = u.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to update user %s: %+v", userID, err)
			return err
		}
		if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "user", userID.String(), oldValue, converter.UserToResponse(user)); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// issueTokens generates an access/refresh pair and registers both token IDs
// so they can be revoked later.
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, user.ID, accessTokenID, jwt.AccessToken, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokenStore.Save(ctx, user.ID, refreshTokenID, jwt.RefreshToken, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.AuthResponse{
		User:         *converter.UserToResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
