package appErrors

import (
	"estate_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError пишет ошибку в ответ. Причина 5xx уходит только в лог.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		cause := err.Err
		if cause == nil {
			cause = err
		}
		logger.CtxWithError(c.Request.Context(), "server error", cause,
			"code", err.Code,
			"path", c.Request.URL.Path,
		)
		if !h.Debug {
			err = &AppError{Code: err.Code, Message: err.Message, HTTPCode: err.HTTPCode}
		}
	}

	c.AbortWithStatusJSON(err.HTTPCode, err)
}

// HandleError - обработка ошибок для Gin контекста
func HandleError(c *gin.Context, err *AppError) {
	handler := &GinErrorHandler{Debug: false}
	handler.HandleGinError(c, err)
}

// HandleValidationError - ошибка биндинга или валидации запроса
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ValidationError(gin.H{"details": err.Error()}))
}
