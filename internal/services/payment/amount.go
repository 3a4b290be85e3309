package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrAmountTooPrecise  = errors.New("amount has more decimal places than the currency allows")
	ErrAmountTooLarge    = errors.New("amount is too large")
)

// Валюты без дробной части (ISO 4217, как их считает Stripe)
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {}, "KRW": {}, "MGA": {},
	"PYG": {}, "RWF": {}, "UGX": {}, "VND": {}, "VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

var threeDecimalCurrencies = map[string]struct{}{
	"BHD": {}, "JOD": {}, "KWD": {}, "OMR": {}, "TND": {},
}

// CurrencyExponent - число знаков минорной единицы
func CurrencyExponent(currency string) int32 {
	c := strings.ToUpper(currency)
	if _, ok := zeroDecimalCurrencies[c]; ok {
		return 0
	}
	if _, ok := threeDecimalCurrencies[c]; ok {
		return 3
	}
	return 2
}

// ToMinorUnits точно переводит сумму в минорные единицы: 19.99 USD -> 1999.
// Округления нет: лишние знаки после запятой - ошибка ввода.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if amount.Sign() <= 0 {
		return 0, ErrNonPositiveAmount
	}

	scaled := amount.Shift(CurrencyExponent(currency))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s %s", ErrAmountTooPrecise, amount.String(), strings.ToUpper(currency))
	}
	if !scaled.BigInt().IsInt64() {
		return 0, ErrAmountTooLarge
	}
	return scaled.IntPart(), nil
}
