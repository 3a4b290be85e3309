package handlers

import (
	"fmt"

	"estate_backend/internal/appErrors"
	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/internal/validator"
	"estate_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB из gin.Context (кладет DBMiddleware)
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind JSON body", "error", err.Error(), "path", c.Request.URL.Path)
		appErrors.HandleError(c, appErrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind query params", "error", err.Error(), "path", c.Request.URL.Path)
		appErrors.HandleError(c, appErrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			appErrors.HandleError(c, appErrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 3. Ошибки сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := appErrors.AsAppError(err); ok {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"code", appErr.Code,
				"error", appErr.Message,
				"path", c.Request.URL.Path,
			)
		}
		appErrors.HandleError(c, appErr)
		return
	}

	appErrors.HandleError(c, appErrors.InternalError(err))
}

// ============================================================================
// 4. Текущий пользователь
// ============================================================================

// RequirePrincipal возвращает principal или отвечает 401
func (h *BaseHandler) RequirePrincipal(c *gin.Context) (*auth.Principal, bool) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: no session",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		appErrors.HandleError(c, appErrors.ErrUnauthenticated)
		return nil, false
	}
	return principal, true
}
