package kernel

import (
	"fmt"
	"strings"

	"interpreting/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a value object for the costing snapshot carried on an order.
// It pairs a decimal amount with an ISO 4217 currency code. Money is
// immutable; the zero value is "no snapshot" and validates as such.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value. The amount must not be negative and the
// currency must be a three-letter code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"currency", fmt.Errorf("%q is not a three-letter currency code", currency))
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s is negative", amount))
	}

	return Money{amount: amount, currency: currency}, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether this is the "no snapshot" zero value.
func (m Money) IsZero() bool {
	return m.currency == ""
}

// IsEqual compares two Money values.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the value as "12.50 EUR".
func (m Money) String() string {
	if m.IsZero() {
		return ""
	}
	return m.amount.String() + " " + m.currency
}
