package services

import (
	"context"

	"allsers_backend/internal/auth"
	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

const authDomain = "auth"

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	RegisterPushToken(ctx context.Context, userID string, req dto.RegisterPushTokenRequest) error
	ClearPushToken(ctx context.Context, userID string) error
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrConflict(repositories.ErrUserAlreadyExists, authDomain, "email already registered")
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	role := models.UserRoleUser
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		Status:       models.UserStatusActive,
		City:         req.City,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.NewForbiddenError("account is not active")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := buildUserResponse(user)
	return &resp, nil
}

func (s *authService) RegisterPushToken(ctx context.Context, userID string, req dto.RegisterPushTokenRequest) error {
	if err := s.userRepo.UpdatePushToken(userID, req.Token); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) ClearPushToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearPushToken(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		City:      user.City,
		AvatarURL: user.AvatarURL,
	}
}
