package services

import (
	"errors"
	"time"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"

	"gorm.io/gorm"
)

// SessionToken - выпущенная сессия
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
	Principal *auth.Principal
}

type SessionService interface {
	// Issue выпускает сессию по строке пользователя
	Issue(user *models.User) (*SessionToken, error)

	// Refresh перечитывает пользователя и выпускает свежий снимок
	Refresh(db *gorm.DB, userID string) (*SessionToken, error)

	// Resolve разбирает учетные данные запроса без ввода-вывода
	Resolve(token string) (*auth.Principal, bool)

	TTL() time.Duration
}

type SessionServiceImpl struct {
	manager  *auth.SessionManager
	userRepo repositories.UserRepository
}

func NewSessionService(manager *auth.SessionManager, userRepo repositories.UserRepository) SessionService {
	return &SessionServiceImpl{
		manager:  manager,
		userRepo: userRepo,
	}
}

func (s *SessionServiceImpl) Issue(user *models.User) (*SessionToken, error) {
	principal, err := auth.PrincipalFromUser(user)
	if err != nil {
		// неизвестная роль в хранилище - поломка данных, а не ошибка клиента
		if errors.Is(err, auth.ErrUnknownRole) {
			logger.Error("user has unknown role", "user_id", user.ID, "role", user.Role)
		}
		return nil, appErrors.InternalError(err)
	}

	token, expiresAt, err := s.manager.Issue(principal)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	principal.IssuedAt = expiresAt.Add(-s.manager.TTL())

	return &SessionToken{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

func (s *SessionServiceImpl) Refresh(db *gorm.DB, userID string) (*SessionToken, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		// пользователь удален после выпуска сессии
		return nil, appErrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return s.Issue(user)
}

func (s *SessionServiceImpl) Resolve(token string) (*auth.Principal, bool) {
	return s.manager.Resolve(token)
}

func (s *SessionServiceImpl) TTL() time.Duration {
	return s.manager.TTL()
}
