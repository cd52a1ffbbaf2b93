package values

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with decimal-safe arithmetic. All rate
// and floor math in the negotiation policy runs through this type; rounding
// to cents happens only at the presentation boundary.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// USD is the only currency the loadboard quotes in today.
const USD = "USD"

// NewMoney creates a Money value object.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code: %q", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float64 amount.
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// MustNewMoneyFromFloat creates Money from a float and panics on error
// (for constants and tests).
func MustNewMoneyFromFloat(amount float64, currency string) Money {
	m, err := NewMoneyFromFloat(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// String returns the amount formatted to cents, e.g. "2350.00".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Float64 returns the amount rounded to cents as a float64. Use only when
// handing the value to the wire contract.
func (m Money) Float64() float64 {
	return m.amount.Round(2).InexactFloat64()
}

// Mul multiplies the amount by a decimal factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Sub subtracts a same-currency amount.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// LessThan compares at full precision.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThanOrEqual compares at full precision.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// Max returns the larger of two same-currency amounts.
func Max(a, b Money) Money {
	if b.amount.GreaterThan(a.amount) {
		return b
	}
	return a
}
