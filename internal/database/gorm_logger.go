package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate_backend/internal/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger направляет логи gorm в общий slog логгер
type GormLogger struct {
	level gormlogger.LogLevel
}

func NewGormLogger() *GormLogger {
	return &GormLogger{level: gormlogger.Info}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{level: level}
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.CtxInfo(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.CtxWarn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.CtxError(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace вызывается gorm после каждого запроса
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	// "не найдено" - обычный исход для репозиториев
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, _ := fc()
		logger.DBLog("query", sql, elapsed, err)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.CtxWarn(ctx, "slow query", "query", sql, "rows", rows, "duration_ms", elapsed.Milliseconds())
	case l.level >= gormlogger.Info:
		sql, _ := fc()
		logger.DBLog("query", sql, elapsed, nil)
	}
}
