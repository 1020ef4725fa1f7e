package engine

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// AnnuityPayment computes the level payment for an annuity:
// principal * r * (1+r)^n / ((1+r)^n - 1). A zero periodic rate falls back
// to straight division so the formula never divides by zero.
func AnnuityPayment(principal, periodicRate decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(periods))
	if periodicRate.IsZero() {
		return principal.Div(n)
	}

	compounded := one.Add(periodicRate).Pow(n)
	return principal.Mul(periodicRate).Mul(compounded).Div(compounded.Sub(one))
}
