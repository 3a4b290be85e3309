package handlers

import (
	"net/http"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PasswordHandler struct {
	*BaseHandler
	reset services.PasswordResetService
}

func NewPasswordHandler(base *BaseHandler, reset services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{
		BaseHandler: base,
		reset:       reset,
	}
}

func (h *PasswordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/password/forgot", h.Forgot)
	rg.POST("/password/reset", h.Reset)
	rg.GET("/reset-token/verify", h.InspectToken)
}

// Forgot godoc
// @Summary Запросить сброс пароля
// @Description Ответ одинаков для любого адреса
// @Tags password
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} appErrors.AppError
// @Router /password/forgot [post]
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reset.RequestReset(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the account exists, a reset link has been sent"})
}

// InspectToken godoc
// @Summary Проверить ссылку сброса
// @Description Не потребляет ссылку
// @Tags password
// @Produce json
// @Param token query string true "Токен из письма"
// @Success 200 {object} dto.ResetTokenStatus
// @Failure 400 {object} appErrors.AppError
// @Router /reset-token/verify [get]
func (h *PasswordHandler) InspectToken(c *gin.Context) {
	status, err := h.reset.InspectToken(h.GetDB(c), c.Query("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Reset godoc
// @Summary Установить новый пароль
// @Tags password
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetConfirm true "Токен и новый пароль"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 404 {object} appErrors.AppError
// @Router /password/reset [post]
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reset.ResetPassword(h.GetDB(c), req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}
