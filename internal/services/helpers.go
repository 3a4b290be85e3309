package services

import (
	"context"
	"strings"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/ratelimit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clock - источник текущего времени (подменяется в тестах)
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ctxOf - контекст запроса, который DBMiddleware кладет в *gorm.DB
func ctxOf(db *gorm.DB) context.Context {
	if db != nil && db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}

func newID() string {
	return uuid.NewString()
}

// allowSend - лимит писем на адрес. При недоступном Redis пропускаем: письмо важнее лимита.
func allowSend(ctx context.Context, limiter ratelimit.Limiter, key string) bool {
	if limiter == nil {
		return true
	}
	ok, err := limiter.Allow(ctx, key)
	if err != nil {
		logger.CtxWarn(ctx, "rate limiter unavailable, allowing", "error", err.Error())
		return true
	}
	return ok
}
