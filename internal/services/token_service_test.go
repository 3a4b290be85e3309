package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"estate_backend/internal/models"
	"estate_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTokens(t *testing.T, env *testEnv) int64 {
	var n int64
	require.NoError(t, env.db.Model(&models.AuthToken{}).Count(&n).Error)
	return n
}

func TestTokenService_ConsumeUnknownTokenIsInvalid(t *testing.T) {
	env := newTestEnv(t)

	for _, token := range []string{"", "deadbeef", "never-issued"} {
		res, err := env.tokens.Consume(env.db, token, models.TokenKindPasswordReset)
		require.NoError(t, err)
		assert.Equal(t, TokenInvalid, res.Outcome, "токен %q", token)
		assert.Empty(t, res.Email)
	}
}

func TestTokenService_ExpiredTokenIsRemoved(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Issue(env.db, "user@example.com", models.TokenKindPasswordReset)
	require.NoError(t, err)

	env.clock.Advance(testResetTTL + time.Second)

	res, err := env.tokens.Consume(env.db, token, models.TokenKindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, TokenExpired, res.Outcome)
	assert.Equal(t, int64(0), countTokens(t, env), "истекший токен должен быть удален")

	// повторная попытка уже не видит токена
	res, err = env.tokens.Consume(env.db, token, models.TokenKindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, res.Outcome)
}

func TestTokenService_ExactlyAtExpiryIsStillValid(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Issue(env.db, "user@example.com", models.TokenKindPasswordReset)
	require.NoError(t, err)

	env.clock.Advance(testResetTTL)

	res, err := env.tokens.Consume(env.db, token, models.TokenKindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, TokenValid, res.Outcome)
}

// Сценарий: истекшая ссылка, затем новая ссылка потребляется ровно один раз
func TestTokenService_ResetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	kind := models.TokenKindPasswordReset

	stale, err := env.tokens.Issue(env.db, "user@example.com", kind)
	require.NoError(t, err)
	env.clock.Advance(2 * testResetTTL)

	res, err := env.tokens.Consume(env.db, stale, kind)
	require.NoError(t, err)
	assert.Equal(t, TokenExpired, res.Outcome)

	fresh, err := env.tokens.Issue(env.db, "user@example.com", kind)
	require.NoError(t, err)
	env.clock.Advance(testResetTTL / 2)

	res, err = env.tokens.Consume(env.db, fresh, kind)
	require.NoError(t, err)
	assert.Equal(t, TokenResult{Outcome: TokenValid, Email: "user@example.com"}, res)

	res, err = env.tokens.Consume(env.db, fresh, kind)
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, res.Outcome)
}

// Одно соединение: гонка на уровне операторов внутри Consume.
// Транзакции на разных соединениях - в workflow_race_test.go.
func TestTokenService_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	env := newTestEnv(t)
	kind := models.TokenKindEmailVerification

	for round := 0; round < 5; round++ {
		token, err := env.tokens.Issue(env.db, "race@example.com", kind)
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		results := make([]TokenResult, workers)
		errs := make([]error, workers)

		start := make(chan struct{})
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				results[i], errs[i] = env.tokens.Consume(env.db, token, kind)
			}(i)
		}
		close(start)
		wg.Wait()

		valid := 0
		for i := range results {
			require.NoError(t, errs[i])
			if results[i].Valid() {
				valid++
			} else {
				assert.Equal(t, TokenInvalid, results[i].Outcome)
			}
		}
		assert.Equal(t, 1, valid, "ровно один потребитель должен победить (раунд %d)", round)
	}
}

func TestTokenService_IssueKeepsOneLiveTokenPerEmail(t *testing.T) {
	env := newTestEnv(t)
	kind := models.TokenKindPasswordReset

	first, err := env.tokens.Issue(env.db, "User@Example.com ", kind)
	require.NoError(t, err)
	second, err := env.tokens.Issue(env.db, "user@example.com", kind)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// токен другого вида не затрагивается
	_, err = env.tokens.Issue(env.db, "user@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countTokens(t, env))

	res, err := env.tokens.Consume(env.db, first, kind)
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, res.Outcome, "старая ссылка должна перестать работать")

	res, err = env.tokens.Consume(env.db, second, kind)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", res.Email)
}

func TestTokenService_KindsAreSeparate(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Issue(env.db, "user@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)

	res, err := env.tokens.Consume(env.db, token, models.TokenKindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, TokenInvalid, res.Outcome)

	res, err = env.tokens.Consume(env.db, token, models.TokenKindEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, TokenValid, res.Outcome)
}

func TestTokenService_IssueRetriesOnCollision(t *testing.T) {
	env := newTestEnv(t)
	svc := env.tokens.(*TokenServiceImpl)

	// занимаем значение токеном другого адреса
	taken := &models.AuthToken{
		ID: "taken", Kind: models.TokenKindPasswordReset, Token: "same-value",
		Email: "other@example.com", ExpiresAt: env.clock.Now().Add(time.Hour), CreatedAt: env.clock.Now(),
	}
	require.NoError(t, env.db.Create(taken).Error)

	values := []string{"same-value", "same-value", "unique-value"}
	svc.generate = func() (string, error) {
		v := values[0]
		values = values[1:]
		return v, nil
	}

	token, err := env.tokens.Issue(env.db, "user@example.com", models.TokenKindPasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "unique-value", token)

	svc.generate = func() (string, error) { return "same-value", nil }
	_, err = env.tokens.Issue(env.db, "third@example.com", models.TokenKindPasswordReset)
	assert.ErrorIs(t, err, ErrTokenCollision)
}

func TestTokenService_IssueGeneratorFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := env.tokens.(*TokenServiceImpl)
	svc.generate = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := env.tokens.Issue(env.db, "user@example.com", models.TokenKindPasswordReset)
	assert.Error(t, err)
	assert.Equal(t, int64(0), countTokens(t, env))
}

func TestTokenService_InspectDoesNotConsume(t *testing.T) {
	env := newTestEnv(t)
	kind := models.TokenKindPasswordReset

	token, err := env.tokens.Issue(env.db, "user@example.com", kind)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := env.tokens.Inspect(env.db, token, kind)
		require.NoError(t, err)
		assert.Equal(t, TokenResult{Outcome: TokenValid, Email: "user@example.com"}, res)
	}

	env.clock.Advance(testResetTTL + time.Minute)
	res, err := env.tokens.Inspect(env.db, token, kind)
	require.NoError(t, err)
	assert.Equal(t, TokenExpired, res.Outcome)
	assert.Equal(t, int64(0), countTokens(t, env))
}

func TestTokenService_PurgeExpired(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tokens.Issue(env.db, "a@example.com", models.TokenKindPasswordReset)
	require.NoError(t, err)
	_, err = env.tokens.Issue(env.db, "b@example.com", models.TokenKindEmailVerification)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)

	n, err := env.tokens.PurgeExpired(env.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "удаляется только ссылка сброса (1ч), подтверждение живет 24ч")
	assert.Equal(t, int64(1), countTokens(t, env))
}

func TestTokenService_TTLs(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, time.Hour, env.tokens.TTL(models.TokenKindPasswordReset))
	assert.Equal(t, 24*time.Hour, env.tokens.TTL(models.TokenKindEmailVerification))

	_, err := env.tokens.Issue(env.db, "x@example.com", "magic_link")
	assert.Error(t, err)
}

func TestTokenRepository_ErrTokenNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := repositories.NewTokenRepository().FindByToken(env.db, models.TokenKindPasswordReset, "nope")
	assert.ErrorIs(t, err, repositories.ErrTokenNotFound)
}
