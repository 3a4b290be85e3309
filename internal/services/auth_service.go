package services

import (
	"errors"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*models.User, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*SessionToken, error)
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	sessions     SessionService
	verification VerificationService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessions SessionService,
	verification VerificationService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		sessions:     sessions,
		verification: verification,
	}
}

// Register - регистрация нового пользователя с ролью user
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*models.User, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleUser,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, appErrors.ErrEmailAlreadyExists
		}
		return nil, appErrors.InternalError(err)
	}

	if err := s.verification.SendVerification(db, user.Email); err != nil {
		// аккаунт уже создан, письмо можно запросить повторно
		logger.CtxWithError(ctxOf(db), "failed to send verification after register", err, "user_id", user.ID)
	}

	return user, nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*SessionToken, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	return s.sessions.Issue(user)
}
