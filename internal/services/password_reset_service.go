package services

import (
	"errors"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/ratelimit"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"

	"gorm.io/gorm"
)

type PasswordResetService interface {
	// RequestReset отправляет ссылку сброса. Неизвестный адрес молча принимается.
	RequestReset(db *gorm.DB, email string) error

	// InspectToken проверяет ссылку, не потребляя ее
	InspectToken(db *gorm.DB, token string) (*dto.ResetTokenStatus, error)

	// ResetPassword потребляет ссылку и меняет пароль в одной транзакции
	ResetPassword(db *gorm.DB, token, newPassword string) error
}

type PasswordResetServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	mailer   *EmailService
	limiter  ratelimit.Limiter
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokens TokenService,
	mailer *EmailService,
	limiter ratelimit.Limiter,
) PasswordResetService {
	return &PasswordResetServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		limiter:  limiter,
	}
}

func (s *PasswordResetServiceImpl) RequestReset(db *gorm.DB, email string) error {
	ctx := ctxOf(db)
	email = normalizeEmail(email)

	if !allowSend(ctx, s.limiter, "reset:"+email) {
		logger.CtxWarn(ctx, "password reset rate limited")
		return nil
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		logger.CtxDebug(ctx, "password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(db, email, models.TokenKindPasswordReset)
	if err != nil {
		return err
	}

	ttl := s.tokens.TTL(models.TokenKindPasswordReset)
	if err := s.mailer.SendPasswordResetEmail(ctx, email, token, ttl); err != nil {
		logger.CtxWithError(ctx, "failed to send password reset email", err, "user_id", user.ID)
	}
	return nil
}

func (s *PasswordResetServiceImpl) InspectToken(db *gorm.DB, token string) (*dto.ResetTokenStatus, error) {
	if token == "" {
		return nil, appErrors.NewBadRequestError("token is required")
	}

	res, err := s.tokens.Inspect(db, token, models.TokenKindPasswordReset)
	if err != nil {
		return nil, err
	}
	if err := tokenOutcomeError(res); err != nil {
		return nil, err
	}
	return &dto.ResetTokenStatus{Valid: true, Email: res.Email}, nil
}

func (s *PasswordResetServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	if token == "" {
		return appErrors.NewBadRequestError("token is required")
	}
	// слабый пароль не должен сжигать ссылку
	if err := auth.ValidatePassword(newPassword); err != nil {
		return appErrors.ErrWeakPassword
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return appErrors.InternalError(err)
	}

	var outcome error
	var userID string
	err = db.Transaction(func(tx *gorm.DB) error {
		res, err := s.tokens.Consume(tx, token, models.TokenKindPasswordReset)
		if err != nil {
			return err
		}
		if outcome = tokenOutcomeError(res); outcome != nil {
			return nil
		}

		user, err := s.userRepo.FindByEmail(tx, res.Email)
		if errors.Is(err, repositories.ErrUserNotFound) {
			outcome = appErrors.ErrUserNotFound
			return nil
		}
		if err != nil {
			return err
		}

		// ошибка здесь откатывает и удаление токена
		if err := s.userRepo.UpdatePassword(tx, user.ID, hash); err != nil {
			return err
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return err
	}
	if outcome != nil {
		return outcome
	}

	logger.CtxInfo(ctxOf(db), "password reset completed", "user_id", userID)
	return nil
}

func tokenOutcomeError(res TokenResult) error {
	switch res.Outcome {
	case TokenValid:
		return nil
	case TokenExpired:
		return appErrors.ErrTokenExpired
	default:
		return appErrors.ErrInvalidToken
	}
}
