package monetico

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point payment amount. The processor's textual protocol
// renders amounts with minimal decimal notation and no thousands separator,
// concatenated directly with the currency code (e.g. "50EUR", "42.42EUR").
type Money struct {
	value decimal.Decimal
}

// NewMoney wraps a decimal value as a Money amount.
func NewMoney(value decimal.Decimal) Money {
	return Money{value: value}
}

// NewMoneyFromFloat converts a float amount. Prefer NewMoneyFromCents when
// the amount originates from a minor-unit integer.
func NewMoneyFromFloat(value float64) Money {
	return Money{value: decimal.NewFromFloat(value)}
}

// NewMoneyFromCents builds an amount from currency minor units.
func NewMoneyFromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -2)}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// String renders the amount without trailing zeros. Integral amounts render
// with no decimal point at all, matching the processor's examples.
func (m Money) String() string {
	s := m.value.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Format renders the amount in wire form, currency code appended.
func (m Money) Format(currency string) string {
	return m.String() + currency
}
