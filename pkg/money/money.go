package money

import (
	"github.com/shopspring/decimal"
)

// All amounts in the system are exact decimals. Helpers here keep the
// pricing arithmetic in one place so services never touch floats.

var Zero = decimal.Zero

// FromString parses a decimal amount from its string form.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FinalAmount computes subtotal - discount - pointsDiscount, clamped at zero.
func FinalAmount(subtotal, discount, pointsDiscount decimal.Decimal) decimal.Decimal {
	final := subtotal.Sub(discount).Sub(pointsDiscount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// Percentage returns base * pct / 100.
func Percentage(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}

// PointsDiscount converts redeemed points into a currency discount using a
// linear rate expressed as points per currency unit. A rate of 10 means
// 1000 points buy a discount of 100.
func PointsDiscount(points int64, pointsPerUnit decimal.Decimal) decimal.Decimal {
	if points <= 0 || !pointsPerUnit.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(points).Div(pointsPerUnit)
}

// EarnedPoints converts an amount spent into loyalty points using a linear
// earn rate (points per currency unit), truncated to whole points.
func EarnedPoints(amountSpent, earnRate decimal.Decimal) int64 {
	if !amountSpent.IsPositive() || !earnRate.IsPositive() {
		return 0
	}
	return amountSpent.Mul(earnRate).IntPart()
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
