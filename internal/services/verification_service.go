package services

import (
	"errors"
	"time"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/ratelimit"
	"estate_backend/internal/repositories"

	"gorm.io/gorm"
)

// VerifyResult - итог подтверждения email
type VerifyResult struct {
	User            *models.User
	AlreadyVerified bool
}

type VerificationService interface {
	// SendVerification выпускает ссылку и отправляет письмо.
	// Неизвестный или уже подтвержденный адрес молча принимается.
	SendVerification(db *gorm.DB, email string) error

	// VerifyEmail потребляет ссылку и отмечает адрес подтвержденным
	VerifyEmail(db *gorm.DB, token string) (*VerifyResult, error)
}

type VerificationServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	mailer   *EmailService
	limiter  ratelimit.Limiter
	now      Clock
}

func NewVerificationService(
	userRepo repositories.UserRepository,
	tokens TokenService,
	mailer *EmailService,
	limiter ratelimit.Limiter,
	clock Clock,
) VerificationService {
	if clock == nil {
		clock = systemClock
	}
	return &VerificationServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		limiter:  limiter,
		now:      clock,
	}
}

func (s *VerificationServiceImpl) SendVerification(db *gorm.DB, email string) error {
	ctx := ctxOf(db)
	email = normalizeEmail(email)

	if !allowSend(ctx, s.limiter, "verify:"+email) {
		logger.CtxWarn(ctx, "verification email rate limited")
		return nil
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		logger.CtxDebug(ctx, "verification requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if user.IsEmailVerified() {
		return nil
	}

	token, err := s.tokens.Issue(db, email, models.TokenKindEmailVerification)
	if err != nil {
		return err
	}

	ttl := s.tokens.TTL(models.TokenKindEmailVerification)
	if err := s.mailer.SendVerificationEmail(ctx, email, user.Name, token, ttl); err != nil {
		// ответ не должен отличаться для существующих адресов
		logger.CtxWithError(ctx, "failed to send verification email", err, "user_id", user.ID)
	}
	return nil
}

func (s *VerificationServiceImpl) VerifyEmail(db *gorm.DB, token string) (*VerifyResult, error) {
	if token == "" {
		return nil, appErrors.NewBadRequestError("token is required")
	}

	var (
		result  *VerifyResult
		outcome error
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		res, err := s.tokens.Consume(tx, token, models.TokenKindEmailVerification)
		if err != nil {
			return err
		}

		// Invalid/Expired - обычные исходы: удаление истекшего токена фиксируется
		if outcome = tokenOutcomeError(res); outcome != nil {
			return nil
		}

		updated, err := s.userRepo.MarkEmailVerified(tx, res.Email, s.now().UTC().Truncate(time.Second))
		if err != nil {
			return err
		}

		user, err := s.userRepo.FindByEmail(tx, res.Email)
		if errors.Is(err, repositories.ErrUserNotFound) {
			outcome = appErrors.ErrUserNotFound
			return nil
		}
		if err != nil {
			return err
		}

		result = &VerifyResult{User: user, AlreadyVerified: !updated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return nil, outcome
	}

	logger.CtxInfo(ctxOf(db), "email verified", "user_id", result.User.ID, "already_verified", result.AlreadyVerified)
	return result, nil
}
