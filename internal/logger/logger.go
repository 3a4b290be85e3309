package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var log *slog.Logger

// Init инициализирует глобальный логгер
// env: "development" или "production"
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

// InitWithWriter - то же, что Init, но с произвольным выводом (тесты, файлы)
func InitWithWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	switch strings.ToLower(env) {
	case "development", "dev":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		opts.AddSource = false
		handler = slog.NewTextHandler(w, opts)
	default:
		// Production: JSON формат для парсинга
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// Debug логирует debug сообщение
func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

// Info логирует info сообщение
func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

// Warn логирует warning сообщение
func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

// Error логирует error сообщение
func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает новый логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}

// HTTPLog логирует HTTP запрос. Уровень зависит от класса статуса.
func HTTPLog(method, path string, status int, duration time.Duration, size int, args ...any) {
	fields := append([]any{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"size_bytes", size,
	}, args...)

	switch {
	case status >= 500:
		GetLogger().Error("http request", fields...)
	case status >= 400:
		GetLogger().Warn("http request", fields...)
	default:
		GetLogger().Info("http request", fields...)
	}
}

// DBLog логирует database операцию
func DBLog(operation, query string, duration time.Duration, err error) {
	fields := []any{
		"operation", operation,
		"query", query,
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("database operation failed", fields...)
	} else {
		GetLogger().Debug("database operation", fields...)
	}
}

// WorkerLog логирует background worker операцию
func WorkerLog(worker, operation string, err error, args ...any) {
	fields := append([]any{
		"worker", worker,
		"operation", operation,
	}, args...)

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
	} else {
		GetLogger().Info("worker operation completed", fields...)
	}
}
