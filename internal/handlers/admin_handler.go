package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	members services.MemberService
	users   services.UserService
	gate    *middleware.Gate
}

func NewAdminHandler(base *BaseHandler, members services.MemberService, users services.UserService, gate *middleware.Gate) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		members:     members,
		users:       users,
		gate:        gate,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(h.gate.Require(auth.RequireAdmin))
	{
		admin.PUT("/members/:userId/review", h.ReviewMember)
		admin.PUT("/users/:id/role", h.ChangeRole)
	}
}

// ReviewMember godoc
// @Summary Решение по заявке на членство
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "ID пользователя"
// @Param request body dto.ReviewMemberRequest true "Статус и комментарий"
// @Success 200 {object} dto.MemberStatusResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 401 {object} appErrors.AppError
// @Failure 403 {object} appErrors.AppError
// @Failure 404 {object} appErrors.AppError
// @Router /admin/members/{userId}/review [put]
func (h *AdminHandler) ReviewMember(c *gin.Context) {
	admin, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ReviewMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	status, err := h.members.Review(h.GetDB(c), admin.ID, c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ChangeRole godoc
// @Summary Сменить роль пользователя
// @Description Новая роль попадет в сессию пользователя при ее обновлении
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Param request body dto.ChangeRoleRequest true "Роль"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 401 {object} appErrors.AppError
// @Failure 403 {object} appErrors.AppError
// @Failure 404 {object} appErrors.AppError
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	admin, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.users.ChangeRole(h.GetDB(c), admin.ID, c.Param("id"), req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
