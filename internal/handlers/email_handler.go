package handlers

import (
	"net/http"

	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	*BaseHandler
	verification services.VerificationService
	sessions     services.SessionService
	cookie       SessionCookie
}

func NewEmailHandler(
	base *BaseHandler,
	verification services.VerificationService,
	sessions services.SessionService,
	cookie SessionCookie,
) *EmailHandler {
	return &EmailHandler{
		BaseHandler:  base,
		verification: verification,
		sessions:     sessions,
		cookie:       cookie,
	}
}

func (h *EmailHandler) RegisterRoutes(rg *gin.RouterGroup) {
	email := rg.Group("/email")
	{
		email.GET("/verify", h.Verify)
		email.POST("/resend-verification", h.ResendVerification)
	}
}

// Verify godoc
// @Summary Подтвердить email
// @Description Потребляет ссылку из письма. Если пользователь вошел, его сессия обновляется.
// @Tags email
// @Produce json
// @Param token query string true "Токен из письма"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} appErrors.AppError "Ссылка неверна или истекла"
// @Failure 404 {object} appErrors.AppError "Пользователь не найден"
// @Router /email/verify [get]
func (h *EmailHandler) Verify(c *gin.Context) {
	res, err := h.verification.VerifyEmail(h.GetDB(c), c.Query("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// вошедший пользователь сразу получает сессию с подтвержденным email
	if principal := middleware.CurrentPrincipal(c); principal != nil && principal.ID == res.User.ID {
		session, err := h.sessions.Issue(res.User)
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "failed to refresh session after verification", err)
		} else {
			h.cookie.set(c, session)
		}
	}

	message := "Email successfully verified"
	if res.AlreadyVerified {
		message = "Email already verified"
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// ResendVerification godoc
// @Summary Повторно отправить письмо подтверждения
// @Description Ответ одинаков для любого адреса
// @Tags email
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} appErrors.AppError
// @Router /email/resend-verification [post]
func (h *EmailHandler) ResendVerification(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.verification.SendVerification(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the account exists and is not verified, a new link has been sent"})
}
