// Package money holds the fixed-point arithmetic used for every monetary
// amount in the engine. Amounts are decimals with exactly two fraction
// digits; rounding (half-up) happens once, when a value enters the system,
// and never again on stored totals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sanitize normalizes an incoming amount to two decimal places.
// decimal.Round rounds half away from zero, which for the non-negative
// amounts this engine handles is round-half-up. Call it exactly once per
// input value.
func Sanitize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse reads an amount from its string form and normalizes it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	return Sanitize(d), nil
}

// LineTotal is quantity * unit price. Unit prices are already two-decimal,
// so the product needs no re-rounding.
func LineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
