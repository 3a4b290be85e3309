package testutil

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/database"
	"estate_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную sqlite базу во временной директории теста и мигрирует схему.
// Одно соединение: sqlite не любит параллельных писателей.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, "?_busy_timeout=5000", 1)
}

// NewConcurrentTestDB - та же база, но с пулом из conns соединений, чтобы транзакции
// шли параллельно по разным соединениям. BEGIN IMMEDIATE: писатели ждут блокировку
// по busy_timeout, а не получают SQLITE_BUSY на повышении блокировки.
func NewConcurrentTestDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	return openTestDB(t, "?_busy_timeout=10000&_txlock=immediate", conns)
}

func openTestDB(t *testing.T, params string, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+params), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "Миграция тестовой БД не должна падать")
	return db
}

// UserOptions - параметры тестового пользователя
type UserOptions struct {
	Name     string
	Password string
	Role     models.UserRole
	Verified bool
}

// CreateUser создает пользователя с хешированным паролем
func CreateUser(t *testing.T, db *gorm.DB, email string, opts UserOptions) *models.User {
	t.Helper()

	if opts.Password == "" {
		opts.Password = "password123"
	}
	if opts.Role == "" {
		opts.Role = models.UserRoleUser
	}
	if opts.Name == "" {
		opts.Name = strings.Split(email, "@")[0]
	}

	hash, err := auth.HashPassword(opts.Password)
	require.NoError(t, err, "Не удалось хешировать пароль")

	user := &models.User{
		Email:        strings.ToLower(email),
		Name:         opts.Name,
		PasswordHash: hash,
		Role:         opts.Role,
	}
	if opts.Verified {
		now := time.Now().UTC().Truncate(time.Second)
		user.EmailVerified = &now
	}

	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", email)
	return user
}

// Clock - управляемые часы для сервисов
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// NewMockDB - gorm поверх sqlmock (диалект postgres) для проверки сбоев хранилища
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}
