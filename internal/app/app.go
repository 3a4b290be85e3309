package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "estate_backend/docs"
	"estate_backend/internal/auth"
	"estate_backend/internal/config"
	"estate_backend/internal/database"
	"estate_backend/internal/email"
	"estate_backend/internal/handlers"
	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/internal/models"
	"estate_backend/internal/ratelimit"
	"estate_backend/internal/repositories"
	"estate_backend/internal/routes"
	"estate_backend/internal/services"
	"estate_backend/internal/services/payment"
	"estate_backend/internal/validator"
	"estate_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies - внешние ресурсы, из которых собирается приложение
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client // nil - лимитер отключен
	Mail     email.Provider
	Payments payment.Provider
	Clock    services.Clock
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// без администратора сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	deps := &Dependencies{
		DB:       gormDB,
		Redis:    connectRedis(ctx, cfg),
		Mail:     newEmailProvider(cfg),
		Payments: newPaymentProvider(cfg),
	}
	defer deps.Mail.Close()

	ginRouter, container := SetupRouter(cfg, deps)

	workers.NewTokenReaper(gormDB, container.TokenService, cfg.Workers.TokenReaperInterval).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg, deps)
	appHandlers := initializeHandlers(cfg, deps, serviceContainer)

	ginRouter := initializeGinRouter(cfg, deps.DB, serviceContainer.SessionService)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, deps *Dependencies) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewTokenRepository()
	profileRepo := repositories.NewMemberProfileRepository()
	paymentRepo := repositories.NewPaymentIntentRepository()

	// --- Инфраструктура ---
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if deps.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(deps.Redis, "mail", cfg.Tokens.RateLimit, cfg.Tokens.RateWindow)
	}

	sessionManager := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Issuer)
	if deps.Clock != nil {
		sessionManager = sessionManager.WithClock(deps.Clock)
	}

	emailService := services.NewEmailService(deps.Mail, services.EmailLinks{
		BaseURL:       cfg.Server.PublicURL,
		VerifyEmail:   cfg.Routes.VerifyEmail,
		ResetPassword: cfg.Routes.ResetPassword,
	}, cfg.Email.Async)

	// --- Сервисы ---
	tokenService := services.NewTokenService(tokenRepo, cfg.Tokens.PasswordResetTTL, cfg.Tokens.EmailVerificationTTL, deps.Clock)
	sessionService := services.NewSessionService(sessionManager, userRepo)
	verificationService := services.NewVerificationService(userRepo, tokenService, emailService, limiter, deps.Clock)
	passwordResetService := services.NewPasswordResetService(userRepo, tokenService, emailService, limiter)
	authService := services.NewAuthService(userRepo, sessionService, verificationService)
	memberService := services.NewMemberService(profileRepo, userRepo, deps.Clock)
	userService := services.NewUserService(userRepo)
	paymentService := services.NewPaymentService(deps.Payments, paymentRepo, deps.Clock)

	return &services.ServiceContainer{
		SessionService:       sessionService,
		AuthService:          authService,
		TokenService:         tokenService,
		VerificationService:  verificationService,
		PasswordResetService: passwordResetService,
		MemberService:        memberService,
		UserService:          userService,
		PaymentService:       paymentService,
		EmailService:         emailService,
	}
}

func initializeHandlers(cfg *config.Config, deps *Dependencies, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	gate := middleware.NewGate(services.MemberService, auth.RemediationPaths{
		Login:             cfg.Routes.Login,
		Unauthorized:      cfg.Routes.Unauthorized,
		VerifyEmailNotice: cfg.Routes.VerifyEmailNotice,
		BecomeMember:      cfg.Routes.BecomeMember,
	})
	cookie := handlers.SessionCookie{
		Name:   cfg.Session.CookieName,
		Domain: cfg.Session.CookieDomain,
		Secure: cfg.Session.CookieSecure,
	}

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService, cookie),
		SessionHandler:  handlers.NewSessionHandler(baseHandler, services.SessionService, cookie),
		EmailHandler:    handlers.NewEmailHandler(baseHandler, services.VerificationService, services.SessionService, cookie),
		PasswordHandler: handlers.NewPasswordHandler(baseHandler, services.PasswordResetService),
		MemberHandler:   handlers.NewMemberHandler(baseHandler, services.MemberService, gate),
		AdminHandler:    handlers.NewAdminHandler(baseHandler, services.MemberService, services.UserService, gate),
		PaymentHandler:  handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		HealthHandler:   handlers.NewHealthHandler(deps.DB, deps.Redis),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, sessions services.SessionService) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.SessionMiddleware(sessions, cfg.Session.CookieName))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// connectRedis - без Redis сервис работает, письма просто не ограничиваются
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.Redis.URL == "" {
		logger.Warn("REDIS_URL is not set, email rate limiting disabled")
		return nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("Redis unavailable, email rate limiting disabled", "error", err)
		return nil
	}
	logger.Info("Redis connected")
	return client
}

func newEmailProvider(cfg *config.Config) email.Provider {
	templates := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := templates.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Fatal("Failed to load email templates", "dir", cfg.Email.TemplatesDir, "error", err)
		}
	}

	if cfg.Email.Provider == "smtp" {
		provider := email.NewSMTPProvider(email.ConfigFromApp(cfg), templates)
		if err := provider.Validate(); err != nil {
			logger.Fatal("Invalid SMTP configuration", "error", err)
		}
		return provider
	}

	logger.Warn("Email provider is 'log', emails are written to the log only")
	return email.NewLogProvider(templates)
}

func newPaymentProvider(cfg *config.Config) payment.Provider {
	if cfg.Payment.Provider == "mock" {
		logger.Warn("Payment provider is 'mock', no real charges are created")
		return payment.NewMockProvider()
	}
	return payment.NewStripeProvider(cfg.Payment.SecretKey)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdmin.Email))
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}
	if err := auth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("first admin password: %w", err)
	}

	userRepo := repositories.NewUserRepository()

	return db.Transaction(func(tx *gorm.DB) error {
		count, err := userRepo.CountByRole(tx, models.UserRoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if count > 0 {
			logger.Info("Admin user already exists. Skipping creation.")
			return nil
		}

		_, err = userRepo.FindByEmail(tx, adminEmail)
		if err == nil {
			// адрес занят обычным пользователем: роль не меняем молча
			return fmt.Errorf("user %s exists but is not an admin", adminEmail)
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		hashedPassword, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		now := time.Now().UTC().Truncate(time.Second)
		newAdmin := &models.User{
			Email:         adminEmail,
			Name:          cfg.FirstAdmin.Name,
			PasswordHash:  hashedPassword,
			Role:          models.UserRoleAdmin,
			EmailVerified: &now,
		}
		if err := userRepo.Create(tx, newAdmin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("Created first admin user", "email", adminEmail)
		return nil
	})
}
