//go:build unit

package payment_test

import (
	"context"
	"testing"
	"time"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/payment"
	infrapayment "order-fulfillment/internal/infra/payment"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, mutate func(*config.PaymentConfig)) (*infrapayment.SimulatedGateway, *clock.MockClock) {
	t.Helper()
	cfg := config.NewTestConfig().Payment
	if mutate != nil {
		mutate(&cfg)
	}
	clk := clock.NewMockClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	return infrapayment.NewSimulatedGateway(cfg, clk, nil), clk
}

func request(amount string) payment.Request {
	return payment.Request{
		OrderID:        uuid.NewString(),
		Amount:         money.MustParse(amount, "USD"),
		Method:         payment.MethodCreditCard,
		IdempotencyKey: "payment_" + uuid.NewString(),
	}
}

func TestSimulatedGateway_ProcessPayment(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		req     func() payment.Request
		wantErr error
	}{
		{
			name: "success: captured",
			req:  func() payment.Request { return request("99.99") },
		},
		{
			name:    "error: amount over fraud threshold",
			req:     func() payment.Request { return request("10001.00") },
			wantErr: payment.ErrFraudRejected,
		},
		{
			name: "success: amount at fraud threshold",
			req:  func() payment.Request { return request("10000.00") },
		},
		{
			name: "error: unsupported method",
			req: func() payment.Request {
				r := request("10.00")
				r.Method = payment.MethodBankTransfer
				return r
			},
			wantErr: payment.ErrUnsupportedMethod,
		},
		{
			name:    "error: zero amount",
			req:     func() payment.Request { return request("0") },
			wantErr: payment.ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw, _ := newGateway(t, nil)
			res, err := gw.ProcessPayment(ctx, tc.req())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payment.StatusCaptured, res.Status)
			assert.NotEmpty(t, res.PaymentID)
			assert.NotEmpty(t, res.TransactionID)
		})
	}
}

func TestSimulatedGateway_IdempotentReplay(t *testing.T) {
	gw, _ := newGateway(t, nil)
	req := request("25.00")

	first, err := gw.ProcessPayment(context.Background(), req)
	require.NoError(t, err)
	second, err := gw.ProcessPayment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.TransactionID, second.TransactionID)
}

func TestSimulatedGateway_FraudDoesNotConsumeRateWindow(t *testing.T) {
	gw, clk := newGateway(t, func(c *config.PaymentConfig) { c.RateLimit = 2 })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := gw.ProcessPayment(ctx, request("10001.00"))
		require.ErrorIs(t, err, payment.ErrFraudRejected)
	}

	_, err := gw.ProcessPayment(ctx, request("1.00"))
	require.NoError(t, err)
	_, err = gw.ProcessPayment(ctx, request("1.00"))
	require.NoError(t, err)

	_, err = gw.ProcessPayment(ctx, request("1.00"))
	require.ErrorIs(t, err, payment.ErrRateLimited)
	assert.Equal(t, "RETRIABLE", string(payment.Classify(err)))

	clk.Add(time.Minute + time.Second)
	_, err = gw.ProcessPayment(ctx, request("1.00"))
	assert.NoError(t, err, "window slides after RateWindow")
}

func TestSimulatedGateway_Timeout(t *testing.T) {
	gw, _ := newGateway(t, func(c *config.PaymentConfig) {
		c.SimulatedLatency = 200 * time.Millisecond
		c.Timeout = 5 * time.Millisecond
	})

	_, err := gw.ProcessPayment(context.Background(), request("10.00"))
	require.ErrorIs(t, err, payment.ErrTimeout)
	assert.Equal(t, "RETRIABLE", string(payment.Classify(err)))
}

func TestSimulatedGateway_Refunds(t *testing.T) {
	ctx := context.Background()

	t.Run("second full refund is rejected", func(t *testing.T) {
		gw, _ := newGateway(t, nil)
		res, err := gw.ProcessPayment(ctx, request("100.00"))
		require.NoError(t, err)

		refund, err := gw.RefundPayment(ctx, res.PaymentID, money.MustParse("100.00", "USD"), "order cancelled")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, refund.Status)

		_, err = gw.RefundPayment(ctx, res.PaymentID, money.MustParse("100.00", "USD"), "order cancelled")
		require.ErrorIs(t, err, payment.ErrExceedsAvailableAmount)

		details, err := gw.GetPaymentStatus(ctx, res.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, details.Status)
		assert.True(t, details.Refunded.Equal(money.MustParse("100.00", "USD")))
	})

	t.Run("partial refunds track the remainder", func(t *testing.T) {
		gw, _ := newGateway(t, nil)
		res, err := gw.ProcessPayment(ctx, request("100.00"))
		require.NoError(t, err)

		refund, err := gw.RefundPayment(ctx, res.PaymentID, money.MustParse("40.00", "USD"), "partial")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPartiallyRefunded, refund.Status)

		_, err = gw.RefundPayment(ctx, res.PaymentID, money.MustParse("60.01", "USD"), "too much")
		require.ErrorIs(t, err, payment.ErrExceedsAvailableAmount)

		refund, err = gw.RefundPayment(ctx, res.PaymentID, money.MustParse("60.00", "USD"), "rest")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, refund.Status)
	})

	t.Run("unknown payment", func(t *testing.T) {
		gw, _ := newGateway(t, nil)
		_, err := gw.RefundPayment(ctx, "pay_missing", money.MustParse("1.00", "USD"), "x")
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
		_, err = gw.GetPaymentStatus(ctx, "pay_missing")
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})
}
