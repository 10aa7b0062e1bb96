package payment

import (
	"context"
	"errors"
	"log/slog"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/payment"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"

	"github.com/sony/gobreaker"
)

// BreakerGateway guards a Gateway with one circuit breaker. Only retriable
// failures count toward tripping; a fraud rejection says nothing about the
// provider's health.
type BreakerGateway struct {
	next payment.Gateway
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerGateway(next payment.Gateway, cfg config.PaymentConfig, logger *slog.Logger) *BreakerGateway {
	if logger == nil {
		logger = slog.Default()
	}
	tripAfter := cfg.BreakerTripAfter
	if tripAfter == 0 {
		tripAfter = 1
	}
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: cfg.BreakerProbes,
		Interval:    cfg.BreakerWindow,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || payment.Classify(err) != errs.ClassRetriable
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerGateway{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerGateway) ProcessPayment(ctx context.Context, req payment.Request) (*payment.Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ProcessPayment(ctx, req)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.(*payment.Result), nil
}

func (b *BreakerGateway) RefundPayment(ctx context.Context, paymentID string, amount money.Money, reason string) (*payment.RefundResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.RefundPayment(ctx, paymentID, amount, reason)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.(*payment.RefundResult), nil
}

func (b *BreakerGateway) GetPaymentStatus(ctx context.Context, paymentID string) (*payment.Details, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GetPaymentStatus(ctx, paymentID)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.(*payment.Details), nil
}

func (b *BreakerGateway) State() gobreaker.State {
	return b.cb.State()
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errs.Wrap(payment.ErrCircuitOpen, err.Error())
	}
	return err
}
