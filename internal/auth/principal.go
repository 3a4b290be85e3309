package auth

import (
	"errors"
	"fmt"
	"time"

	"estate_backend/internal/models"
)

// ErrUnknownRole - роль вне закрытого набора {user, admin}
var ErrUnknownRole = errors.New("unknown role")

// Principal - аутентифицированный пользователь текущего запроса.
// Это снимок: смена роли или подтверждение email видны только после перевыпуска сессии.
type Principal struct {
	ID            string
	Email         string
	Role          models.UserRole
	EmailVerified *time.Time
	IssuedAt      time.Time
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.UserRoleAdmin
}

func (p *Principal) IsEmailVerified() bool {
	return p != nil && p.EmailVerified != nil
}

// ParseRole декодирует роль из хранилища или из учетных данных
func ParseRole(s string) (models.UserRole, error) {
	role := models.UserRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// PrincipalFromUser - единственная точка перехода от строки users к Principal
func PrincipalFromUser(u *models.User) (*Principal, error) {
	if u == nil {
		return nil, errors.New("nil user")
	}
	role, err := ParseRole(string(u.Role))
	if err != nil {
		return nil, err
	}

	var verified *time.Time
	if u.EmailVerified != nil {
		t := u.EmailVerified.UTC()
		verified = &t
	}

	return &Principal{
		ID:            u.ID,
		Email:         u.Email,
		Role:          role,
		EmailVerified: verified,
	}, nil
}
