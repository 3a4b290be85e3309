package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv - пустая переменная не переопределяет файл
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "DATABASE_DRIVER", "SERVER_ENV", "SERVER_PORT", "PUBLIC_URL",
		"SESSION_SECRET", "REDIS_URL", "STRIPE_SECRET_KEY", "SMTP_PASSWORD",
		"FIRST_ADMIN_EMAIL", "FIRST_ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_FileAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  env: production
database:
  driver: mysql
  url: "user:pass@tcp(localhost:3306)/estate"
session:
  secret: "`+testSecret+`"
  ttl: 12h
tokens:
  password_reset_ttl: 30m
payment:
  provider: mock
routes:
  login: /signin
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Tokens.PasswordResetTTL)
	assert.Equal(t, "/signin", cfg.Routes.Login)

	// незаданное берется из значений по умолчанию
	assert.Equal(t, 24*time.Hour, cfg.Tokens.EmailVerificationTTL)
	assert.Equal(t, 5, cfg.Tokens.RateLimit)
	assert.Equal(t, "/become-member", cfg.Routes.BecomeMember)
	assert.Equal(t, "session", cfg.Session.CookieName)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  url: postgres://file
session:
  secret: "`+testSecret+`"
payment:
  provider: stripe
  secret_key: sk_test_file
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_env")
	t.Setenv("FIRST_ADMIN_EMAIL", "root@example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sk_test_env", cfg.Payment.SecretKey)
	assert.Equal(t, "root@example.com", cfg.FirstAdmin.Email)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"без базы", `session: {secret: "` + testSecret + `"}`, nil},
		{"короткий секрет", `{database: {url: "x"}, session: {secret: "short"}, payment: {provider: mock}}`, nil},
		{"stripe без ключа", `{database: {url: "x"}, session: {secret: "` + testSecret + `"}}`, nil},
		{"нулевой ttl", `{database: {url: "x"}, session: {secret: "` + testSecret + `"}, tokens: {password_reset_ttl: 0s}, payment: {provider: mock}}`, nil},
		{"неверный порт", `{database: {url: "x"}, session: {secret: "` + testSecret + `"}, payment: {provider: mock}}`, map[string]string{"SERVER_PORT": "http"}},
		{"битый yaml", `server: [`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
