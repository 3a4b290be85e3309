package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims - содержимое подписанной сессии
type SessionClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified *int64 `json:"email_verified,omitempty"`
}

// SessionManager выпускает и проверяет сессионные учетные данные (HS256)
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, issuer string) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock подменяет часы (тесты)
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue подписывает снимок principal. Возвращает токен и момент истечения.
func (m *SessionManager) Issue(p *Principal) (string, time.Time, error) {
	if p == nil || p.ID == "" {
		return "", time.Time{}, errors.New("principal is required")
	}
	if !p.Role.IsValid() {
		return "", time.Time{}, ErrUnknownRole
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: p.Email,
		Role:  string(p.Role),
	}
	if p.EmailVerified != nil {
		ts := p.EmailVerified.Unix()
		claims.EmailVerified = &ts
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Resolve никогда не паникует и не возвращает ошибку: любая проблема
// с учетными данными (пусто, подделка, истекли, чужой алгоритм, неизвестная роль)
// эквивалентна их отсутствию.
func (m *SessionManager) Resolve(token string) (*Principal, bool) {
	if token == "" {
		return nil, false
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	if claims.Subject == "" {
		return nil, false
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, false
	}

	p := &Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  role,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.EmailVerified != nil {
		t := time.Unix(*claims.EmailVerified, 0).UTC()
		p.EmailVerified = &t
	}
	return p, true
}
