package dto

import "allsers_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=user artisan"`
	City     string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	City      string          `json:"city,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
}

type RegisterPushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
