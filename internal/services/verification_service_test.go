package services

import (
	"strings"
	"testing"
	"time"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/email"
	"estate_backend/internal/models"
	"estate_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reloadUser(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	user, err := env.users.FindByEmail(env.db, email)
	require.NoError(t, err)
	return user
}

func TestVerificationService_SendAndVerify(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "buyer@example.com", testutil.UserOptions{Name: "Анна"})

	require.NoError(t, env.verify.SendVerification(env.db, " Buyer@Example.com"))

	sent := env.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"buyer@example.com"}, sent[0].To)
	assert.Equal(t, email.TemplateVerification, sent[0].Template)
	assert.Equal(t, "Анна", sent[0].Data["Name"])
	assert.True(t, strings.HasPrefix(sent[0].Data["Link"].(string), "https://estate.test/verify-email?token="))

	res, err := env.verify.VerifyEmail(env.db, lastLinkToken(t, env))
	require.NoError(t, err)
	assert.False(t, res.AlreadyVerified)
	require.NotNil(t, res.User.EmailVerified)
	assert.True(t, res.User.EmailVerified.Equal(env.clock.Now()))
}

func TestVerificationService_ReverifyKeepsTimestamp(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "buyer@example.com", testutil.UserOptions{})

	first, err := env.tokens.Issue(env.db, "buyer@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)
	_, err = env.verify.VerifyEmail(env.db, first)
	require.NoError(t, err)
	verifiedAt := *reloadUser(t, env, "buyer@example.com").EmailVerified

	env.clock.Advance(time.Hour)

	// ссылка выпущена напрямую, в обход проверки SendVerification
	second, err := env.tokens.Issue(env.db, "buyer@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)
	res, err := env.verify.VerifyEmail(env.db, second)
	require.NoError(t, err)
	assert.True(t, res.AlreadyVerified)

	after := reloadUser(t, env, "buyer@example.com").EmailVerified
	require.NotNil(t, after)
	assert.True(t, verifiedAt.Equal(*after), "время подтверждения не должно меняться")
}

func TestVerificationService_VerifyOutcomes(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.verify.VerifyEmail(env.db, "")
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = env.verify.VerifyEmail(env.db, "unknown")
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)

	expired, err := env.tokens.Issue(env.db, "late@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)
	env.clock.Advance(testVerificationTTL + time.Minute)
	_, err = env.verify.VerifyEmail(env.db, expired)
	assert.ErrorIs(t, err, appErrors.ErrTokenExpired)
	assert.Equal(t, int64(0), countTokens(t, env), "удаление истекшей ссылки фиксируется")

	// ссылка без пользователя
	orphan, err := env.tokens.Issue(env.db, "ghost@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)
	_, err = env.verify.VerifyEmail(env.db, orphan)
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
	assert.Equal(t, int64(0), countTokens(t, env))
}

func TestVerificationService_SendIsSilentForUnknownAndVerified(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "done@example.com", testutil.UserOptions{Verified: true})

	require.NoError(t, env.verify.SendVerification(env.db, "nobody@example.com"))
	require.NoError(t, env.verify.SendVerification(env.db, "done@example.com"))

	assert.Empty(t, env.mail.Sent())
	assert.Equal(t, int64(0), countTokens(t, env))
}

func TestVerificationService_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "buyer@example.com", testutil.UserOptions{})

	limiter := &countingLimiter{limit: 1}
	svc := NewVerificationService(env.users, env.tokens,
		NewEmailService(env.mail, EmailLinks{BaseURL: "https://estate.test", VerifyEmail: "/verify-email"}, false),
		limiter, env.clock.Now)

	require.NoError(t, svc.SendVerification(env.db, "buyer@example.com"))
	require.NoError(t, svc.SendVerification(env.db, "buyer@example.com"))

	assert.Len(t, env.mail.Sent(), 1)
	assert.Equal(t, []string{"verify:buyer@example.com", "verify:buyer@example.com"}, limiter.keys)
}
