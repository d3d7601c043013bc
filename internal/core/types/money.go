// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; totals are
// accumulated unrounded and rounded to currency precision only when
// rendered (DTOs, CSV), so summation never drifts.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// CurrencyScale is the number of fractional digits rendered for money.
const CurrencyScale = 2

// RoundCurrency rounds a Money value to currency precision.
// Presentation-time only; never apply during accumulation.
func RoundCurrency(m Money) Money {
	return m.Round(CurrencyScale)
}
