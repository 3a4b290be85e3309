package services

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/email"
	"estate_backend/internal/logger"
	"estate_backend/internal/ratelimit"
	"estate_backend/internal/repositories"
	"estate_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testResetTTL        = time.Hour
	testVerificationTTL = 24 * time.Hour
)

// testEnv собирает сервисы поверх sqlite и управляемых часов
type testEnv struct {
	db      *gorm.DB
	clock   *testutil.Clock
	mail    *email.LogProvider
	users   repositories.UserRepository
	tokens  TokenService
	verify  VerificationService
	reset   PasswordResetService
	session SessionService
	members MemberService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, testutil.NewTestDB(t))
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	clock := testutil.NewClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	mail := email.NewLogProvider(email.NewTemplateManager())

	users := repositories.NewUserRepository()
	tokens := NewTokenService(repositories.NewTokenRepository(), testResetTTL, testVerificationTTL, clock.Now)
	mailer := NewEmailService(mail, EmailLinks{BaseURL: "https://estate.test", VerifyEmail: "/verify-email", ResetPassword: "/reset-password"}, false)
	manager := auth.NewSessionManager("0123456789abcdef0123456789abcdef", time.Hour, "estate-test").WithClock(clock.Now)

	return &testEnv{
		db:      db,
		clock:   clock,
		mail:    mail,
		users:   users,
		tokens:  tokens,
		verify:  NewVerificationService(users, tokens, mailer, ratelimit.NoopLimiter{}, clock.Now),
		reset:   NewPasswordResetService(users, tokens, mailer, ratelimit.NoopLimiter{}),
		session: NewSessionService(manager, users),
		members: NewMemberService(repositories.NewMemberProfileRepository(), users, clock.Now),
	}
}

// lastLinkToken достает токен из последнего перехваченного письма
func lastLinkToken(t *testing.T, env *testEnv) string {
	t.Helper()
	sent := env.mail.Sent()
	require.NotEmpty(t, sent, "письмо не отправлено")

	link, ok := sent[len(sent)-1].Data["Link"].(string)
	require.True(t, ok)
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

// countingLimiter пропускает первые limit запросов на ключ
type countingLimiter struct {
	limit int
	err   error
	keys  []string
	seen  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return false, l.err
	}
	if l.seen == nil {
		l.seen = map[string]int{}
	}
	l.seen[key]++
	return l.seen[key] <= l.limit, nil
}
