package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler - redis может быть nil (лимитер отключен)
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health godoc
// @Summary Состояние сервиса
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok"}
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"
		code = http.StatusInternalServerError
	}

	if h.redis != nil {
		status["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// без redis лимитер пропускает письма, сервис работает
			status["redis"] = "unavailable"
		}
	}

	c.JSON(code, status)
}
