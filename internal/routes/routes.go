package routes

import (
	"estate_backend/internal/handlers"
	"estate_backend/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.SessionHandler.RegisterRoutes(api)
		appHandlers.EmailHandler.RegisterRoutes(api)
		appHandlers.PasswordHandler.RegisterRoutes(api)
		appHandlers.MemberHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("HTTP routes registered", "base", "/api/v1")
}
