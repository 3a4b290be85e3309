package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     int64
	}{
		{"19.99", "USD", 1999},
		{"100.00", "USD", 10000},
		{"100", "usd", 10000},
		{"0.01", "EUR", 1},
		{"0.1", "EUR", 10},
		{"1234567.89", "GBP", 123456789},
		{"500", "JPY", 500},
		{"1.234", "KWD", 1234},
		// в float64 0.29*100 = 28.999999999999996
		{"0.29", "USD", 29},
		{"1.005", "BHD", 1005},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.currency, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinorUnits_Rejects(t *testing.T) {
	_, err := ToMinorUnits(decimal.RequireFromString("19.999"), "USD")
	assert.ErrorIs(t, err, ErrAmountTooPrecise)

	_, err = ToMinorUnits(decimal.RequireFromString("10.5"), "JPY")
	assert.ErrorIs(t, err, ErrAmountTooPrecise)

	_, err = ToMinorUnits(decimal.Zero, "USD")
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = ToMinorUnits(decimal.RequireFromString("-5"), "USD")
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = ToMinorUnits(decimal.RequireFromString("100000000000000000000"), "USD")
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}

func TestCurrencyExponent(t *testing.T) {
	assert.Equal(t, int32(2), CurrencyExponent("usd"))
	assert.Equal(t, int32(0), CurrencyExponent("KRW"))
	assert.Equal(t, int32(3), CurrencyExponent("omr"))
}
