package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"estate_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(now time.Time) *SessionManager {
	return NewSessionManager(testSecret, time.Hour, "estate-test").WithClock(fixedClock(now))
}

func TestSessionManager_IssueAndResolve(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	verifiedAt := now.Add(-24 * time.Hour)
	m := newTestManager(now)

	token, expiresAt, err := m.Issue(&Principal{
		ID:            "user-1",
		Email:         "user@example.com",
		Role:          models.UserRoleAdmin,
		EmailVerified: &verifiedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	p, ok := m.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, "user@example.com", p.Email)
	assert.Equal(t, models.UserRoleAdmin, p.Role)
	require.NotNil(t, p.EmailVerified)
	assert.True(t, verifiedAt.Equal(*p.EmailVerified))
	assert.True(t, now.Equal(p.IssuedAt))
}

func TestSessionManager_UnverifiedEmailStaysNil(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(now)

	token, _, err := m.Issue(&Principal{ID: "u", Email: "u@example.com", Role: models.UserRoleUser})
	require.NoError(t, err)

	p, ok := m.Resolve(token)
	require.True(t, ok)
	assert.Nil(t, p.EmailVerified)
	assert.False(t, p.IsEmailVerified())
}

func TestSessionManager_ResolveRejectsBadCredentials(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(now)

	valid, _, err := m.Issue(&Principal{ID: "u", Email: "u@example.com", Role: models.UserRoleUser})
	require.NoError(t, err)

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	baseClaims := func() SessionClaims {
		return SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u",
				Issuer:    "estate-test",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Email: "u@example.com",
			Role:  "user",
		}
	}

	wrongIssuer := baseClaims()
	wrongIssuer.Issuer = "someone-else"
	unknownRole := baseClaims()
	unknownRole.Role = "superuser"
	noExpiry := baseClaims()
	noExpiry.ExpiresAt = nil
	noSubject := baseClaims()
	noSubject.Subject = ""

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"tampered":       forgePayload(t, valid, `{"sub":"u","role":"admin","iss":"estate-test"}`),
		"wrong secret":   sign(baseClaims(), jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx")),
		"alg none":       sign(baseClaims(), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
		"wrong alg":      sign(baseClaims(), jwt.SigningMethodHS512, []byte(testSecret)),
		"wrong issuer":   sign(wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret)),
		"unknown role":   sign(unknownRole, jwt.SigningMethodHS256, []byte(testSecret)),
		"missing expiry": sign(noExpiry, jwt.SigningMethodHS256, []byte(testSecret)),
		"missing sub":    sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret)),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				p, ok := m.Resolve(token)
				assert.False(t, ok)
				assert.Nil(t, p)
			})
		})
	}
}

func TestSessionManager_ExpiredCredentialIsAbsent(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTestManager(issuedAt).Issue(&Principal{ID: "u", Role: models.UserRoleUser})
	require.NoError(t, err)

	later := newTestManager(issuedAt.Add(2 * time.Hour))
	p, ok := later.Resolve(token)
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestSessionManager_IssueRejectsUnknownRole(t *testing.T) {
	m := newTestManager(time.Now())
	_, _, err := m.Issue(&Principal{ID: "u", Role: "root"})
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, _, err = m.Issue(nil)
	assert.Error(t, err)
}

func TestPrincipalFromUser(t *testing.T) {
	verified := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &models.User{Email: "a@example.com", Role: models.UserRoleUser, EmailVerified: &verified}
	u.ID = "id-1"

	p, err := PrincipalFromUser(u)
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, models.UserRoleUser, p.Role)
	assert.True(t, p.IsEmailVerified())

	u.Role = "moderator"
	_, err = PrincipalFromUser(u)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

// forgePayload подменяет payload, оставляя исходную подпись
func forgePayload(t *testing.T, token, payload string) string {
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payload))
	return strings.Join(parts, ".")
}
