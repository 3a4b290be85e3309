package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	*BaseHandler
	members services.MemberService
	gate    *middleware.Gate
}

func NewMemberHandler(base *BaseHandler, members services.MemberService, gate *middleware.Gate) *MemberHandler {
	return &MemberHandler{
		BaseHandler: base,
		members:     members,
		gate:        gate,
	}
}

func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	member := rg.Group("/member")
	{
		member.GET("/status", h.gate.Require(auth.RequireAuthenticated), h.Status)
		member.POST("/apply", h.gate.Require(auth.RequireVerifiedEmail), h.Apply)
		member.GET("/area", h.gate.Require(auth.RequireVerifiedEmail, auth.RequireActiveMember), h.Area)
	}
}

// Status godoc
// @Summary Статус членства
// @Description Без заявки все поля пустые
// @Tags member
// @Produce json
// @Success 200 {object} dto.MemberStatusResponse
// @Failure 401 {object} appErrors.AppError
// @Router /member/status [get]
func (h *MemberHandler) Status(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	status, err := h.members.Status(h.GetDB(c), principal.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Apply godoc
// @Summary Подать заявку на членство
// @Tags member
// @Produce json
// @Success 200 {object} dto.MemberStatusResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 401 {object} appErrors.AppError
// @Failure 403 {object} appErrors.AppError
// @Router /member/apply [post]
func (h *MemberHandler) Apply(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	status, err := h.members.Apply(h.GetDB(c), principal.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Area godoc
// @Summary Закрытый раздел для участников
// @Tags member
// @Produce json
// @Success 200 {object} dto.MemberStatusResponse
// @Failure 401 {object} appErrors.AppError
// @Failure 403 {object} appErrors.AppError
// @Router /member/area [get]
func (h *MemberHandler) Area(c *gin.Context) {
	principal, ok := h.RequirePrincipal(c)
	if !ok {
		return
	}

	status, err := h.members.Status(h.GetDB(c), principal.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
