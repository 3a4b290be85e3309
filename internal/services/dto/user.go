package dto

import (
	"time"

	"estate_backend/internal/models"
)

// UserResponse - публичное представление пользователя
type UserResponse struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Role          models.UserRole `json:"role"`
	EmailVerified *time.Time      `json:"emailVerified"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}

// ChangeRoleRequest - смена роли администратором
type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required" validate:"is-user-role"`
}
