package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Role     string `json:"role" validate:"omitempty,is-user-role"`
	Status   string `json:"status" validate:"omitempty,is-member-status"`
	Cycle    string `json:"billingCycle" validate:"omitempty,is-billing-cycle"`
	Currency string `json:"currency" validate:"required,is-currency"`
}

func TestValidator_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Role: "admin", Status: "active", Cycle: "yearly", Currency: "usd"}))

	err := v.Validate(&sample{Role: "moderator", Status: "frozen", Cycle: "weekly", Currency: "US"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be one of: user, admin", vErr.Errors["role"])
	assert.Contains(t, vErr.Errors, "status")
	assert.Contains(t, vErr.Errors, "billingCycle")
	assert.Equal(t, "Must be a 3-letter ISO 4217 currency code", vErr.Errors["currency"])
}

func TestValidator_Required(t *testing.T) {
	err := New().Validate(&sample{})
	require.Error(t, err)
	assert.Equal(t, "This field is required", err.(*ValidationError).Errors["currency"])
}
