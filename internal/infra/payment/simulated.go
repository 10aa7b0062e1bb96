package payment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/payment"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type capture struct {
	details       payment.Details
	transactionID string
}

// SimulatedGateway is an in-process payment provider with the provider's
// observable rules: fraud threshold, method support, a sliding rate window,
// latency bounded by a timeout, and refunds capped at the captured amount.
type SimulatedGateway struct {
	fraudThreshold decimal.Decimal
	rateLimit      int
	rateWindow     time.Duration
	latency        time.Duration
	timeout        time.Duration
	clock          clock.Clock
	logger         *slog.Logger

	mu       sync.Mutex
	captures map[string]*capture
	byKey    map[string]string
	calls    []time.Time
}

func NewSimulatedGateway(cfg config.PaymentConfig, clk clock.Clock, logger *slog.Logger) *SimulatedGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedGateway{
		fraudThreshold: cfg.FraudThreshold,
		rateLimit:      cfg.RateLimit,
		rateWindow:     cfg.RateWindow,
		latency:        cfg.SimulatedLatency,
		timeout:        cfg.Timeout,
		clock:          clk,
		logger:         logger,
		captures:       make(map[string]*capture),
		byKey:          make(map[string]string),
	}
}

func (g *SimulatedGateway) ProcessPayment(ctx context.Context, req payment.Request) (*payment.Result, error) {
	g.mu.Lock()
	if id, ok := g.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		c := g.captures[id]
		g.mu.Unlock()
		return &payment.Result{PaymentID: id, Status: c.details.Status, TransactionID: c.transactionID}, nil
	}

	// Rejections below never count against the rate window.
	if !req.Amount.IsPositive() {
		g.mu.Unlock()
		return nil, payment.ErrInvalidAmount
	}
	if g.fraudThreshold.IsPositive() && req.Amount.Amount().GreaterThan(g.fraudThreshold) {
		g.mu.Unlock()
		g.logger.Warn("payment rejected by fraud check", "order_id", req.OrderID, "amount", req.Amount.String())
		return nil, errs.Wrapf(payment.ErrFraudRejected, "amount %s", req.Amount)
	}
	if !req.Method.Supported() {
		g.mu.Unlock()
		return nil, errs.Wrapf(payment.ErrUnsupportedMethod, "method %q", req.Method)
	}
	if !g.admit(g.clock.Now()) {
		g.mu.Unlock()
		return nil, payment.ErrRateLimited
	}
	g.mu.Unlock()

	if err := g.simulateLatency(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// A concurrent call with the same key may have captured while we waited.
	if id, ok := g.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		c := g.captures[id]
		return &payment.Result{PaymentID: id, Status: c.details.Status, TransactionID: c.transactionID}, nil
	}

	id := "pay_" + uuid.NewString()
	c := &capture{
		details: payment.Details{
			PaymentID: id,
			OrderID:   req.OrderID,
			Status:    payment.StatusCaptured,
			Amount:    req.Amount,
			Refunded:  money.Zero(req.Amount.Currency()),
		},
		transactionID: "txn_" + uuid.NewString(),
	}
	g.captures[id] = c
	if req.IdempotencyKey != "" {
		g.byKey[req.IdempotencyKey] = id
	}
	return &payment.Result{PaymentID: id, Status: payment.StatusCaptured, TransactionID: c.transactionID}, nil
}

func (g *SimulatedGateway) RefundPayment(ctx context.Context, paymentID string, amount money.Money, reason string) (*payment.RefundResult, error) {
	if !amount.IsPositive() {
		return nil, payment.ErrInvalidAmount
	}
	if err := g.simulateLatency(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.captures[paymentID]
	if !ok {
		return nil, errs.Wrapf(payment.ErrPaymentNotFound, "payment %s", paymentID)
	}
	remaining, err := c.details.Amount.Sub(c.details.Refunded)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(remaining) || amount.Currency() != remaining.Currency() {
		return nil, errs.Wrapf(payment.ErrExceedsAvailableAmount, "refund %s, remaining %s", amount, remaining)
	}

	refunded, err := c.details.Refunded.Add(amount)
	if err != nil {
		return nil, err
	}
	c.details.Refunded = refunded
	if refunded.Equal(c.details.Amount) {
		c.details.Status = payment.StatusRefunded
	} else {
		c.details.Status = payment.StatusPartiallyRefunded
	}
	g.logger.Info("payment refunded", "payment_id", paymentID, "amount", amount.String(), "reason", reason)
	return &payment.RefundResult{RefundID: "re_" + uuid.NewString(), Status: c.details.Status}, nil
}

func (g *SimulatedGateway) GetPaymentStatus(_ context.Context, paymentID string) (*payment.Details, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.captures[paymentID]
	if !ok {
		return nil, errs.Wrapf(payment.ErrPaymentNotFound, "payment %s", paymentID)
	}
	d := c.details
	return &d, nil
}

// admit records a call in the sliding window; callers hold g.mu.
func (g *SimulatedGateway) admit(now time.Time) bool {
	if g.rateLimit <= 0 {
		return true
	}
	cutoff := now.Add(-g.rateWindow)
	kept := g.calls[:0]
	for _, t := range g.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	g.calls = kept
	if len(g.calls) >= g.rateLimit {
		return false
	}
	g.calls = append(g.calls, now)
	return true
}

func (g *SimulatedGateway) simulateLatency(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	timer := time.NewTimer(g.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errs.Wrap(payment.ErrTimeout, ctx.Err().Error())
	}
}
