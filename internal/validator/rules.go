package validator

import (
	"estate_backend/internal/logger"
	"estate_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует правила на основе statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правил приложение не должно стартовать
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-member-status", validateMemberStatus)
	mustRegister("is-billing-cycle", validateBillingCycle)
	mustRegister("is-currency", validateCurrency)
}

// Пустые значения пропускаем: для этого есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateMemberStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.MemberStatus(value).IsValid()
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.BillingCycle(value).IsValid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 3 {
		return false
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
