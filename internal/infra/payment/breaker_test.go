//go:build unit

package payment_test

import (
	"context"
	"testing"
	"time"

	"order-fulfillment/internal/domain/payment"
	infrapayment "order-fulfillment/internal/infra/payment"
	"order-fulfillment/internal/pkg/config"
	paymentmock "order-fulfillment/tests/mock/payment"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func breakerConfig() config.PaymentConfig {
	cfg := config.NewTestConfig().Payment
	cfg.BreakerTripAfter = 3
	cfg.BreakerCooldown = 30 * time.Millisecond
	cfg.BreakerProbes = 1
	return cfg
}

func TestBreakerGateway_OpensAfterRetriableFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := paymentmock.NewMockGateway(ctrl)
	gw := infrapayment.NewBreakerGateway(next, breakerConfig(), nil)
	ctx := context.Background()
	req := request("10.00")

	next.EXPECT().ProcessPayment(gomock.Any(), req).Return(nil, payment.ErrTimeout).Times(3)
	for i := 0; i < 3; i++ {
		_, err := gw.ProcessPayment(ctx, req)
		require.ErrorIs(t, err, payment.ErrTimeout)
	}
	assert.Equal(t, gobreaker.StateOpen, gw.State())

	// Open: the gateway is not called at all.
	_, err := gw.ProcessPayment(ctx, req)
	require.ErrorIs(t, err, payment.ErrCircuitOpen)
	assert.Equal(t, "RETRIABLE", string(payment.Classify(err)))

	time.Sleep(40 * time.Millisecond)

	next.EXPECT().ProcessPayment(gomock.Any(), req).Return(&payment.Result{PaymentID: "pay_1", Status: payment.StatusCaptured}, nil)
	res, err := gw.ProcessPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "pay_1", res.PaymentID)
	assert.Equal(t, gobreaker.StateClosed, gw.State())
}

func TestBreakerGateway_PermanentFailuresDoNotTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := paymentmock.NewMockGateway(ctrl)
	gw := infrapayment.NewBreakerGateway(next, breakerConfig(), nil)
	req := request("20000.00")

	next.EXPECT().ProcessPayment(gomock.Any(), req).Return(nil, payment.ErrFraudRejected).Times(5)
	for i := 0; i < 5; i++ {
		_, err := gw.ProcessPayment(context.Background(), req)
		require.ErrorIs(t, err, payment.ErrFraudRejected)
	}
	assert.Equal(t, gobreaker.StateClosed, gw.State())
}
