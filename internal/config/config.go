package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		PublicURL      string   `yaml:"public_url"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver          string        `yaml:"driver"` // postgres, mysql, sqlite
		DSN             string        `yaml:"url"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		LogQueries      bool          `yaml:"log_queries"`
	} `yaml:"database"`

	Redis struct {
		URL string `yaml:"url"` // пусто - лимитер отключен
	} `yaml:"redis"`

	Email struct {
		Provider     string `yaml:"provider"` // smtp, log
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
		Async        bool   `yaml:"async"`
	} `yaml:"email"`

	Session struct {
		Secret       string        `yaml:"secret"`
		TTL          time.Duration `yaml:"ttl"`
		Issuer       string        `yaml:"issuer"`
		CookieName   string        `yaml:"cookie_name"`
		CookieSecure bool          `yaml:"cookie_secure"`
		CookieDomain string        `yaml:"cookie_domain"`
	} `yaml:"session"`

	Tokens struct {
		PasswordResetTTL     time.Duration `yaml:"password_reset_ttl"`
		EmailVerificationTTL time.Duration `yaml:"email_verification_ttl"`
		RateLimit            int           `yaml:"rate_limit"`
		RateWindow           time.Duration `yaml:"rate_window"`
	} `yaml:"tokens"`

	Payment struct {
		Provider  string `yaml:"provider"` // stripe, mock
		SecretKey string `yaml:"secret_key"`
	} `yaml:"payment"`

	Routes struct {
		Login             string `yaml:"login"`
		Unauthorized      string `yaml:"unauthorized"`
		VerifyEmailNotice string `yaml:"verify_email_notice"`
		BecomeMember      string `yaml:"become_member"`
		VerifyEmail       string `yaml:"verify_email"`
		ResetPassword     string `yaml:"reset_password"`
	} `yaml:"routes"`

	Workers struct {
		TokenReaperInterval time.Duration `yaml:"token_reaper_interval"`
	} `yaml:"workers"`

	FirstAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// Default возвращает конфигурацию с документированными значениями по умолчанию
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.PublicURL = "http://localhost:3000"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30 * time.Minute

	cfg.Email.Provider = "log"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Estate"
	cfg.Email.Async = true

	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.Session.Issuer = "estate_backend"
	cfg.Session.CookieName = "session"

	cfg.Tokens.PasswordResetTTL = time.Hour
	cfg.Tokens.EmailVerificationTTL = 24 * time.Hour
	cfg.Tokens.RateLimit = 5
	cfg.Tokens.RateWindow = time.Hour

	cfg.Payment.Provider = "stripe"

	cfg.Routes.Login = "/login"
	cfg.Routes.Unauthorized = "/unauthorized"
	cfg.Routes.VerifyEmailNotice = "/verify-email-notice"
	cfg.Routes.BecomeMember = "/become-member"
	cfg.Routes.VerifyEmail = "/verify-email"
	cfg.Routes.ResetPassword = "/reset-password"

	cfg.Workers.TokenReaperInterval = time.Hour

	return &cfg
}

// Load читает YAML поверх значений по умолчанию и применяет переменные окружения.
// Отсутствующий файл не ошибка: в контейнере все приходит из окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
			}
		case os.IsNotExist(err):
			log.Printf("Config file %s not found, using defaults and environment", path)
		default:
			return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Payment.SecretKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("FIRST_ADMIN_EMAIL"); v != "" {
		cfg.FirstAdmin.Email = v
	}
	if v := os.Getenv("FIRST_ADMIN_PASSWORD"); v != "" {
		cfg.FirstAdmin.Password = v
	}
	return nil
}

// Validate проверяет, что без секретов приложение не стартует
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 bytes")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Tokens.PasswordResetTTL <= 0 || c.Tokens.EmailVerificationTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.Payment.Provider == "stripe" && c.Payment.SecretKey == "" {
		return fmt.Errorf("payment secret key is required for the stripe provider")
	}
	return nil
}

// LoadConfig загружает глобальную конфигурацию (.env, затем CONFIG_PATH)
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
