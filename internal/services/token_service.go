package services

import (
	"errors"
	"fmt"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"

	"gorm.io/gorm"
)

// TokenOutcome - результат проверки одноразовой ссылки. Это обычное значение, не ошибка.
type TokenOutcome string

const (
	TokenValid   TokenOutcome = "valid"
	TokenInvalid TokenOutcome = "invalid"
	TokenExpired TokenOutcome = "expired"
)

// TokenResult - исход Consume/Inspect. Email заполнен только для TokenValid.
type TokenResult struct {
	Outcome TokenOutcome
	Email   string
}

func (r TokenResult) Valid() bool {
	return r.Outcome == TokenValid
}

const maxIssueAttempts = 3

var ErrTokenCollision = errors.New("could not generate a unique token")

// TokenService - жизненный цикл одноразовых ссылок.
// error возвращается только при сбоях хранилища.
type TokenService interface {
	// Issue выпускает новый токен; прежние токены того же вида для адреса удаляются
	Issue(db *gorm.DB, email string, kind models.TokenKind) (string, error)

	// Consume принимает токен не более одного раза
	Consume(db *gorm.DB, token string, kind models.TokenKind) (TokenResult, error)

	// Inspect проверяет токен, не потребляя его. Истекший токен удаляется.
	Inspect(db *gorm.DB, token string, kind models.TokenKind) (TokenResult, error)

	// PurgeExpired удаляет все истекшие токены
	PurgeExpired(db *gorm.DB) (int64, error)

	TTL(kind models.TokenKind) time.Duration
}

type TokenServiceImpl struct {
	repo     repositories.TokenRepository
	ttls     map[models.TokenKind]time.Duration
	now      Clock
	generate func() (string, error)
}

func NewTokenService(repo repositories.TokenRepository, resetTTL, verificationTTL time.Duration, clock Clock) TokenService {
	if clock == nil {
		clock = systemClock
	}
	return &TokenServiceImpl{
		repo: repo,
		ttls: map[models.TokenKind]time.Duration{
			models.TokenKindPasswordReset:     resetTTL,
			models.TokenKindEmailVerification: verificationTTL,
		},
		now:      clock,
		generate: auth.GenerateOpaqueToken,
	}
}

func (s *TokenServiceImpl) TTL(kind models.TokenKind) time.Duration {
	return s.ttls[kind]
}

func (s *TokenServiceImpl) Issue(db *gorm.DB, email string, kind models.TokenKind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
	email = normalizeEmail(email)

	var issued string
	err := db.Transaction(func(tx *gorm.DB) error {
		// одна живая ссылка на адрес
		if _, err := s.repo.DeleteByEmail(tx, kind, email); err != nil {
			return err
		}

		now := s.now().UTC()
		for attempt := 0; attempt < maxIssueAttempts; attempt++ {
			token, err := s.generate()
			if err != nil {
				return err
			}

			record := &models.AuthToken{
				ID:        newID(),
				Kind:      kind,
				Token:     token,
				Email:     email,
				ExpiresAt: now.Add(s.ttls[kind]),
				CreatedAt: now,
			}

			// savepoint: после конфликта ключа транзакция остается рабочей
			err = tx.Transaction(func(sp *gorm.DB) error {
				return s.repo.Create(sp, record)
			})
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				logger.CtxWarn(ctxOf(db), "token collision, regenerating", "kind", kind, "attempt", attempt+1)
				continue
			}
			if err != nil {
				return err
			}

			issued = token
			return nil
		}
		return ErrTokenCollision
	})
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", kind, err)
	}
	return issued, nil
}

func (s *TokenServiceImpl) Consume(db *gorm.DB, token string, kind models.TokenKind) (TokenResult, error) {
	record, res, err := s.lookup(db, token, kind)
	if err != nil || record == nil {
		return res, err
	}

	// Условное удаление: выигрывает только тот, кто реально удалил строку
	won, err := s.repo.DeleteByID(db, record.ID)
	if err != nil {
		return TokenResult{}, fmt.Errorf("consume %s token: %w", kind, err)
	}
	if !won {
		return TokenResult{Outcome: TokenInvalid}, nil
	}
	return TokenResult{Outcome: TokenValid, Email: record.Email}, nil
}

func (s *TokenServiceImpl) Inspect(db *gorm.DB, token string, kind models.TokenKind) (TokenResult, error) {
	record, res, err := s.lookup(db, token, kind)
	if err != nil || record == nil {
		return res, err
	}
	return TokenResult{Outcome: TokenValid, Email: record.Email}, nil
}

// lookup возвращает запись только для живого токена.
// Отсутствующий токен - Invalid, истекший удаляется и дает Expired.
func (s *TokenServiceImpl) lookup(db *gorm.DB, token string, kind models.TokenKind) (*models.AuthToken, TokenResult, error) {
	if token == "" {
		return nil, TokenResult{Outcome: TokenInvalid}, nil
	}

	record, err := s.repo.FindByToken(db, kind, token)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		return nil, TokenResult{Outcome: TokenInvalid}, nil
	}
	if err != nil {
		return nil, TokenResult{}, fmt.Errorf("find %s token: %w", kind, err)
	}

	if record.IsExpired(s.now()) {
		if _, err := s.repo.DeleteByID(db, record.ID); err != nil {
			return nil, TokenResult{}, fmt.Errorf("delete expired %s token: %w", kind, err)
		}
		return nil, TokenResult{Outcome: TokenExpired}, nil
	}
	return record, TokenResult{}, nil
}

func (s *TokenServiceImpl) PurgeExpired(db *gorm.DB) (int64, error) {
	return s.repo.DeleteExpired(db, s.now().UTC())
}
