//go:build unit

package payment_test

import (
	"context"
	"errors"
	"testing"

	"order-fulfillment/internal/domain/payment"
	"order-fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want errs.Class
	}{
		{name: "nil", err: nil, want: errs.ClassUnknown},
		{name: "fraud", err: payment.ErrFraudRejected, want: errs.ClassPermanent},
		{name: "wrapped unsupported", err: errs.Wrap(payment.ErrUnsupportedMethod, "charge"), want: errs.ClassPermanent},
		{name: "timeout", err: payment.ErrTimeout, want: errs.ClassRetriable},
		{name: "rate limited", err: payment.ErrRateLimited, want: errs.ClassRetriable},
		{name: "circuit open", err: payment.ErrCircuitOpen, want: errs.ClassRetriable},
		{name: "deadline", err: context.DeadlineExceeded, want: errs.ClassRetriable},
		{name: "unknown provider error", err: errors.New("502 bad gateway"), want: errs.ClassRetriable},
		{name: "validation", err: payment.ErrInvalidAmount, want: errs.ClassValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payment.Classify(tc.err))
		})
	}
}

func TestMethod_Supported(t *testing.T) {
	assert.True(t, payment.MethodCreditCard.Supported())
	assert.True(t, payment.MethodPayPal.Supported())
	assert.False(t, payment.MethodBankTransfer.Supported())
	assert.False(t, payment.Method("crypto").Supported())
}
