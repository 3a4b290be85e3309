package handlers

import (
	"net/http"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cookie      SessionCookie
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cookie:      cookie,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Register godoc
// @Summary Регистрация
// @Description Создает пользователя с ролью user и отправляет письмо подтверждения
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} appErrors.AppError
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login godoc
// @Summary Вход
// @Description Проверяет пароль, выдает сессию в теле ответа и в cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 401 {object} appErrors.AppError
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cookie.set(c, session)
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Logout godoc
// @Summary Выход
// @Description Удаляет cookie сессии
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.clear(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Successfully logged out"})
}
