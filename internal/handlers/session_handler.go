package handlers

import (
	"net/http"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	*BaseHandler
	sessions services.SessionService
	cookie   SessionCookie
}

func NewSessionHandler(base *BaseHandler, sessions services.SessionService, cookie SessionCookie) *SessionHandler {
	return &SessionHandler{
		BaseHandler: base,
		sessions:    sessions,
		cookie:      cookie,
	}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	{
		session.GET("/admin-check", h.AdminCheck)
		session.GET("/refresh", h.Refresh)
		session.POST("/refresh", h.Refresh)
	}
}

// AdminCheck godoc
// @Summary Проверка роли администратора
// @Tags session
// @Produce json
// @Success 200 {object} dto.AdminCheckResponse
// @Failure 401 {object} appErrors.AppError
// @Failure 403 {object} dto.AdminCheckResponse
// @Router /session/admin-check [get]
func (h *SessionHandler) AdminCheck(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	if !principal.IsAdmin() {
		c.JSON(http.StatusForbidden, dto.AdminCheckResponse{IsAdmin: false, Error: "Access denied"})
		return
	}
	c.JSON(http.StatusOK, dto.AdminCheckResponse{IsAdmin: true})
}

// Refresh godoc
// @Summary Обновить сессию
// @Description Перечитывает пользователя и выпускает новую сессию (роль, подтверждение email)
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} appErrors.AppError
// @Router /session/refresh [get]
// @Router /session/refresh [post]
func (h *SessionHandler) Refresh(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	session, err := h.sessions.Refresh(h.GetDB(c), principal.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cookie.set(c, session)
	c.JSON(http.StatusOK, sessionResponse(session))
}
