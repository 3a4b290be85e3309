package dto

import (
	"estate_backend/internal/models"

	"github.com/shopspring/decimal"
)

// CreatePaymentIntentRequest - amount принимается как JSON число или строка
// и разбирается в decimal без float64
type CreatePaymentIntentRequest struct {
	Amount       *decimal.Decimal    `json:"amount" binding:"required"`
	Currency     string              `json:"currency" binding:"required" validate:"is-currency"`
	Plan         string              `json:"plan" binding:"required,max=64"`
	BillingCycle models.BillingCycle `json:"billingCycle" binding:"required" validate:"is-billing-cycle"`
	UserID       *string             `json:"userId" binding:"omitempty,max=64"`
}

// PaymentIntentResponse - ответ с client secret провайдера
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
