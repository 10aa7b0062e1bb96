//go:build unit

package money_test

import (
	"testing"

	"order-fulfillment/internal/domain/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		currency string
		errIs    error
	}{
		{name: "whole amount", amount: "100", currency: "USD"},
		{name: "two decimals", amount: "19.99", currency: "EUR"},
		{name: "zero", amount: "0", currency: "USD"},
		{name: "lowercase currency", amount: "1", currency: "usd", errIs: money.ErrInvalidCurrency},
		{name: "empty currency", amount: "1", currency: "", errIs: money.ErrInvalidCurrency},
		{name: "negative", amount: "-1", currency: "USD", errIs: money.ErrNegativeAmount},
		{name: "three decimals", amount: "1.001", currency: "USD", errIs: money.ErrTooPrecise},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := money.New(decimal.RequireFromString(tc.amount), tc.currency)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(decimal.RequireFromString(tc.amount)))
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	price := money.MustParse("19.99", "USD")

	total := price.Mul(3)
	assert.Equal(t, "59.97 USD", total.String())
	assert.Equal(t, int64(5997), total.Minor())
	assert.True(t, money.FromMinor(5997, "USD").Equal(total))

	sum, err := total.Add(money.MustParse("0.03", "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(6000), sum.Minor())

	_, err = total.Add(money.MustParse("1", "EUR"))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	diff, err := sum.Sub(total)
	require.NoError(t, err)
	assert.Equal(t, int64(3), diff.Minor())
	assert.True(t, sum.GreaterThan(total))
}
