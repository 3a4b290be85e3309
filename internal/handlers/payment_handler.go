package handlers

import (
	"net/http"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	payments services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		payments:    payments,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payment-intent", h.CreateIntent)
}

// CreateIntent godoc
// @Summary Создать платежное намерение
// @Description amount принимается числом или строкой, переводится в минимальные единицы валюты
// @Tags payment
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentIntentRequest true "Сумма, валюта, тариф"
// @Success 200 {object} dto.PaymentIntentResponse
// @Failure 400 {object} appErrors.AppError
// @Failure 500 {object} appErrors.AppError "Failed to create payment intent"
// @Router /payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req dto.CreatePaymentIntentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.payments.CreateIntent(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
