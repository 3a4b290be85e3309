package workers

import (
	"context"
	"time"

	"estate_backend/internal/logger"

	"gorm.io/gorm"
)

// ExpiredTokenPurger - то, что умеет удалять истекшие одноразовые ссылки
type ExpiredTokenPurger interface {
	PurgeExpired(db *gorm.DB) (int64, error)
}

// TokenReaper периодически удаляет истекшие ссылки.
// Корректность их не требует: истекшая ссылка отвергается при проверке.
type TokenReaper struct {
	db       *gorm.DB
	tokens   ExpiredTokenPurger
	interval time.Duration
}

func NewTokenReaper(db *gorm.DB, tokens ExpiredTokenPurger, interval time.Duration) *TokenReaper {
	return &TokenReaper{db: db, tokens: tokens, interval: interval}
}

// Start запускает фоновую очистку. При interval <= 0 ничего не делает.
func (w *TokenReaper) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Token reaper disabled")
		return
	}
	go w.run(ctx)
}

func (w *TokenReaper) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("token_reaper", "stop", nil)
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep - один проход очистки
func (w *TokenReaper) sweep(ctx context.Context) int64 {
	removed, err := w.tokens.PurgeExpired(w.db.WithContext(ctx))
	if err != nil {
		logger.WorkerLog("token_reaper", "purge", err)
		return 0
	}
	if removed > 0 {
		logger.WorkerLog("token_reaper", "purge", nil, "removed", removed)
	}
	return removed
}
