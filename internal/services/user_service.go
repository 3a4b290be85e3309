package services

import (
	"errors"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error)

	// ChangeRole - смена роли администратором. Пользователь увидит ее
	// при следующем обновлении своей сессии.
	ChangeRole(db *gorm.DB, actorID, targetID string, role models.UserRole) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *UserServiceImpl) ChangeRole(db *gorm.DB, actorID, targetID string, role models.UserRole) (*dto.UserResponse, error) {
	if actorID == targetID {
		return nil, appErrors.ErrCannotModifySelf
	}
	if !role.IsValid() {
		return nil, appErrors.NewBadRequestError("invalid role")
	}

	user, err := s.userRepo.FindByID(db, targetID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, appErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return dto.NewUserResponse(user), nil
	}

	if err := s.userRepo.UpdateRole(db, targetID, role); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctxOf(db), "user role changed", "target_id", targetID, "role", role, "actor_id", actorID)
	return s.GetUser(db, targetID)
}
