// Package money implements rounding at currency minor-unit precision.
package money

import "github.com/shopspring/decimal"

// exponents maps ISO 4217 codes to minor-unit digits. Unlisted currencies
// round to two digits.
var exponents = map[string]int32{
	"UAH": 2,
	"USD": 2,
	"EUR": 2,
	"PLN": 2,
	"JPY": 0,
	"HUF": 0,
}

// Exponent returns the number of minor-unit digits for a currency code.
func Exponent(currency string) int32 {
	if exp, ok := exponents[currency]; ok {
		return exp
	}
	return 2
}

// Round rounds an amount to the currency's minor-unit precision.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(Exponent(currency))
}

// IsZero reports whether an amount rounds to zero in the currency.
func IsZero(amount decimal.Decimal, currency string) bool {
	return Round(amount, currency).IsZero()
}

// Compare compares two amounts at the currency's precision.
// Returns -1, 0, or 1.
func Compare(a, b decimal.Decimal, currency string) int {
	return Round(a, currency).Cmp(Round(b, currency))
}
