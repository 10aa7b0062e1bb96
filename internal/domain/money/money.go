package money

import (
	"regexp"

	"order-fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// All supported currencies use two minor digits.
const minorDigits = 2

var (
	ErrInvalidCurrency  = errs.NewClassed("invalid currency code", errs.ClassValidation)
	ErrCurrencyMismatch = errs.NewClassed("currency mismatch", errs.ClassValidation)
	ErrNegativeAmount   = errs.NewClassed("amount cannot be negative", errs.ClassValidation)
	ErrTooPrecise       = errs.NewClassed("amount has more than two decimal places", errs.ClassValidation)
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type Money struct {
	amount   decimal.Decimal
	currency string
}

func New(amount decimal.Decimal, currency string) (Money, error) {
	if !currencyPattern.MatchString(currency) {
		return Money{}, ErrInvalidCurrency
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if !amount.Equal(amount.Truncate(minorDigits)) {
		return Money{}, ErrTooPrecise
	}
	return Money{amount: amount, currency: currency}, nil
}

func MustParse(amount, currency string) Money {
	d := decimal.RequireFromString(amount)
	m, err := New(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func FromMinor(units int64, currency string) Money {
	return Money{amount: decimal.New(units, -minorDigits), currency: currency}
}

func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

func (m Money) Minor() int64 {
	return m.amount.Shift(minorDigits).IntPart()
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) Add(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(o.amount), currency: m.currency}, nil
}

func (m Money) Mul(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty))), currency: m.currency}
}

func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }
func (m Money) Equal(o Money) bool       { return m.currency == o.currency && m.amount.Equal(o.amount) }

func (m Money) String() string {
	return m.amount.StringFixed(minorDigits) + " " + m.currency
}
