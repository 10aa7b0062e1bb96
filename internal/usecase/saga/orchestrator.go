package saga

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/order"
	domoutbox "order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/domain/payment"
	domsaga "order-fulfillment/internal/domain/saga"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/pkg/telemetry"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrOrderNotFound   = errs.NewClassed("order not found", errs.ClassNotFound)
	ErrNotCancellable  = errs.NewClassed("order can no longer be cancelled", errs.ClassConflict)
	ErrSagaUnsettled   = errs.New("saga did not settle")
	errPaymentDeclined = errs.NewClassed("payment declined by provider", errs.ClassPermanent)
)

// RequeueError asks the job runner to try the order again after Delay. It is
// not a failure: the order is waiting on an external dependency.
type RequeueError struct {
	OrderID uuid.UUID
	Round   int
	Delay   time.Duration
	Reason  string
}

func (e *RequeueError) Error() string {
	return fmt.Sprintf("order %s requeued after payment round %d: %s", e.OrderID, e.Round, e.Reason)
}

//go:generate mockgen -source=orchestrator.go -destination=../../../tests/mock/saga/orchestrator.go -package=sagamock
type OrderSaga interface {
	// Run drives the order from its persisted state until it is terminal or has
	// to wait, in which case a *RequeueError is returned.
	Run(ctx context.Context, orderID uuid.UUID) error
	Cancel(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
}

// maxStepsPerRun bounds one Run; a healthy order settles in at most seven.
const maxStepsPerRun = 16

type orchestratorImpl struct {
	uow      shared.UnitOfWork
	ledger   ledger.Ledger
	gateway  payment.Gateway
	appender *outbox.Appender
	clock    clock.Clock
	cfg      config.SagaConfig
	tracer   trace.Tracer
	logger   *slog.Logger

	stepPolicy         Policy
	compensationPolicy Policy
}

func NewOrchestrator(
	uow shared.UnitOfWork,
	ledger ledger.Ledger,
	gateway payment.Gateway,
	clk clock.Clock,
	cfg config.SagaConfig,
	tp trace.TracerProvider,
	logger *slog.Logger,
) OrderSaga {
	if logger == nil {
		logger = slog.Default()
	}
	return &orchestratorImpl{
		uow:      uow,
		ledger:   ledger,
		gateway:  gateway,
		appender: outbox.NewAppender(clk),
		clock:    clk,
		cfg:      cfg,
		tracer:   telemetry.Tracer(tp),
		logger:   logger,
		stepPolicy: Policy{
			Name:     "step",
			Base:     cfg.RetryBaseDelay,
			Max:      cfg.RetryMaxDelay,
			Attempts: cfg.RetryMaxAttempts,
		},
		compensationPolicy: Policy{
			Name:     "compensation",
			Base:     cfg.CompensationBaseDelay,
			Max:      cfg.RetryMaxDelay,
			Attempts: cfg.CompensationAttempts,
		},
	}
}

func (s *orchestratorImpl) Run(ctx context.Context, orderID uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "saga.run", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer func() {
		var rq *RequeueError
		if err != nil && !errs.As(err, &rq) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "saga run failed")
		}
		span.End()
	}()

	raced := false
	for range maxStepsPerRun {
		o, err := s.load(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status().IsTerminal() {
			if raced && o.Status() != order.StatusConfirmed {
				// A concurrent cancel may have committed while this run still held stock.
				s.releaseAll(ctx, o)
			}
			return nil
		}

		err = s.step(ctx, o)
		if err == nil {
			continue
		}
		if infra.IsKind(err, infra.KindConflict) {
			s.logger.Info("order changed concurrently, reloading", "order_id", orderID.String(), "status", string(o.Status()))
			raced = true
			continue
		}
		return err
	}
	return errs.Wrapf(ErrSagaUnsettled, "order %s after %d steps", orderID, maxStepsPerRun)
}

func (s *orchestratorImpl) step(ctx context.Context, o *order.Order) error {
	switch o.Status() {
	case order.StatusPending:
		return s.start(ctx, o)
	case order.StatusProcessing:
		return s.reserveInventory(ctx, o)
	case order.StatusInventoryReserved:
		return s.submitPayment(ctx, o)
	case order.StatusPaymentPending:
		if o.HasPayment() {
			return s.confirm(ctx, o)
		}
		return s.chargePayment(ctx, o)
	case order.StatusCompensating:
		return s.compensate(ctx, o)
	default:
		return errs.Wrapf(domsaga.ErrInvalidTransition, "no step for status %s", o.Status())
	}
}

func (s *orchestratorImpl) start(ctx context.Context, o *order.Order) error {
	t, err := s.next(o, domsaga.EventStarted)
	if err != nil {
		return err
	}
	s.logger.Info("order saga started", "order_id", o.ID().String())
	return s.commit(ctx, o, t, order.ReasonNone, nil)
}

// reserveInventory holds every item under the order id. The first item that
// cannot be held fails the order and frees whatever was already held.
func (s *orchestratorImpl) reserveInventory(ctx context.Context, o *order.Order) error {
	ctx, span := s.tracer.Start(ctx, "saga.reserve_inventory")
	defer span.End()

	for _, it := range o.Items() {
		req := ledger.ReserveRequest{
			ReservationID: o.ID(),
			ProductID:     it.ProductID(),
			Location:      s.location(it),
			Quantity:      it.Quantity(),
			TTL:           s.cfg.ReservationTTL,
		}
		err := s.stepPolicy.Do(ctx, s.logger, func(ctx context.Context) error {
			_, err := s.ledger.Reserve(ctx, req)
			return err
		}, errs.IsRetriable)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return err
		}

		span.RecordError(err)
		reason := order.ReasonInventoryUnavailable
		if errs.Is(err, inventory.ErrInsufficientStock) {
			reason = order.ReasonInsufficientStock
		}
		s.logger.Warn("inventory reservation failed",
			"order_id", o.ID().String(), "product_id", it.ProductID().String(), "reason", string(reason), "error", err.Error())
		return s.failReservation(ctx, o, reason)
	}

	t, err := s.next(o, domsaga.EventInventoryReserved)
	if err != nil {
		return err
	}
	return s.commit(ctx, o, t, order.ReasonNone, nil)
}

func (s *orchestratorImpl) failReservation(ctx context.Context, o *order.Order, reason order.FailureReason) error {
	t, err := s.next(o, domsaga.EventInsufficientStock)
	if err != nil {
		return err
	}
	if t.Has(domsaga.ActionReleaseReservations) && !s.releaseAll(ctx, o) {
		o.MarkCompensationIncomplete()
	}
	return s.commit(ctx, o, t, reason, nil)
}

func (s *orchestratorImpl) submitPayment(ctx context.Context, o *order.Order) error {
	t, err := s.next(o, domsaga.EventPaymentSubmitted)
	if err != nil {
		return err
	}
	return s.commit(ctx, o, t, order.ReasonNone, nil)
}

// chargePayment runs one payment round. Retriable failures are retried in
// process; an open circuit ends the round early. A round that ends retriable
// requeues the order until the round ceiling, then compensates.
func (s *orchestratorImpl) chargePayment(ctx context.Context, o *order.Order) error {
	ctx, span := s.tracer.Start(ctx, "saga.charge_payment")
	defer span.End()

	req := payment.Request{
		OrderID:        o.ID().String(),
		Amount:         o.Total(),
		Method:         payment.Method(o.PaymentMethod()),
		IdempotencyKey: PaymentIdempotencyKey(o.ID()),
	}
	if o.PaymentRounds() >= s.cfg.MaxPaymentRounds {
		return s.settleInterruptedRound(ctx, o, req)
	}
	round := o.StartPaymentRound(s.clock.Now())
	if err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Update(ctx, o, order.StatusPaymentPending)
	}); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("payment.round", round))

	var res *payment.Result
	err := s.stepPolicy.Do(ctx, s.logger, func(ctx context.Context) error {
		r, err := s.gateway.ProcessPayment(ctx, req)
		if err != nil {
			return err
		}
		if r.Status != payment.StatusCaptured {
			return errs.Wrapf(errPaymentDeclined, "status %s", r.Status)
		}
		res = r
		return nil
	}, func(err error) bool {
		return payment.Classify(err) == errs.ClassRetriable && !errs.Is(err, payment.ErrCircuitOpen)
	})

	if err == nil {
		return s.recordCapture(ctx, o, res)
	}
	if ctx.Err() != nil {
		return err
	}
	span.RecordError(err)

	if payment.Classify(err) != errs.ClassRetriable {
		s.logger.Warn("payment rejected", "order_id", o.ID().String(), "round", round, "error", err.Error())
		return s.startCompensation(ctx, o, domsaga.EventPaymentFailed)
	}
	if round >= s.cfg.MaxPaymentRounds {
		s.logger.Warn("payment rounds exhausted", "order_id", o.ID().String(), "round", round, "error", err.Error())
		return s.startCompensation(ctx, o, domsaga.EventRetriesExhausted)
	}
	s.logger.Info("payment unavailable, requeueing order",
		"order_id", o.ID().String(), "round", round, "delay", s.cfg.RequeueDelay, "error", err.Error())
	return &RequeueError{OrderID: o.ID(), Round: round, Delay: s.cfg.RequeueDelay, Reason: err.Error()}
}

// settleInterruptedRound handles an order whose final round was persisted but
// never concluded. The round may have captured before the worker stopped, so
// the request is replayed under the same idempotency key; a capture is
// recorded so that compensation refunds it.
func (s *orchestratorImpl) settleInterruptedRound(ctx context.Context, o *order.Order, req payment.Request) error {
	res, err := s.gateway.ProcessPayment(ctx, req)
	switch {
	case err == nil && res.Status == payment.StatusCaptured:
		s.logger.Warn("capture found after final payment round, refunding",
			"order_id", o.ID().String(), "payment_id", res.PaymentID)
		if err := s.recordCapture(ctx, o, res); err != nil {
			return err
		}
	case err != nil && ctx.Err() != nil:
		return err
	case err != nil && payment.Classify(err) == errs.ClassRetriable:
		// The provider cannot confirm the outcome yet.
		return &RequeueError{OrderID: o.ID(), Round: o.PaymentRounds(), Delay: s.cfg.RequeueDelay, Reason: err.Error()}
	}
	return s.startCompensation(ctx, o, domsaga.EventRetriesExhausted)
}

func (s *orchestratorImpl) recordCapture(ctx context.Context, o *order.Order, res *payment.Result) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o.RecordPayment(res.PaymentID, s.clock.Now())
		if err := tx.Orders().Update(ctx, o, order.StatusPaymentPending); err != nil {
			return err
		}
		_, err := s.appender.Append(ctx, tx, domoutbox.AggregatePayment, res.PaymentID, domoutbox.EventPaymentCaptured, outbox.PaymentEvent{
			OrderID:   o.ID(),
			PaymentID: res.PaymentID,
			Amount:    o.Total().Amount().StringFixed(2),
			Currency:  o.Currency(),
			Status:    string(res.Status),
		})
		return err
	})
}

// confirm ships the held stock. Stock that cannot be shipped after a capture
// is compensated, which refunds the charge.
func (s *orchestratorImpl) confirm(ctx context.Context, o *order.Order) error {
	ctx, span := s.tracer.Start(ctx, "saga.confirm")
	defer span.End()

	t, err := s.next(o, domsaga.EventPaymentCaptured)
	if err != nil {
		return err
	}
	if t.Has(domsaga.ActionFulfillReservations) {
		err := s.stepPolicy.Do(ctx, s.logger, func(ctx context.Context) error {
			return s.ledger.FulfillAll(ctx, o.ID())
		}, errs.IsRetriable)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			span.RecordError(err)
			s.logger.Error("fulfillment failed after capture", "order_id", o.ID().String(), "error", err.Error())
			return s.startCompensation(ctx, o, domsaga.EventFulfillmentFailed)
		}
	}
	if err := s.commit(ctx, o, t, order.ReasonNone, nil); err != nil {
		return err
	}
	s.logger.Info("order confirmed", "order_id", o.ID().String(), "payment_id", deref(o.PaymentID()))
	return nil
}

func (s *orchestratorImpl) startCompensation(ctx context.Context, o *order.Order, ev domsaga.Event) error {
	t, err := s.next(o, ev)
	if err != nil {
		return err
	}
	return s.commit(ctx, o, t, domsaga.Reason(ev), nil)
}

// compensate undoes what the order holds. Each action is retried on its own;
// an action that still fails is left for manual intervention and the order
// is closed with the compensation-incomplete flag.
func (s *orchestratorImpl) compensate(ctx context.Context, o *order.Order) error {
	ctx, span := s.tracer.Start(ctx, "saga.compensate")
	defer span.End()

	t, err := s.next(o, domsaga.EventCompensated)
	if err != nil {
		return err
	}

	if t.Has(domsaga.ActionReleaseReservations) && !s.releaseAll(ctx, o) {
		o.MarkCompensationIncomplete()
	}
	var refund *refundOutcome
	if t.Has(domsaga.ActionRefundPayment) {
		refund, err = s.refund(ctx, o)
		if err != nil {
			o.MarkCompensationIncomplete()
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return s.commit(ctx, o, t, order.ReasonNone, func(ctx context.Context, tx shared.Tx) error {
		if refund == nil {
			return nil
		}
		_, err := s.appender.Append(ctx, tx, domoutbox.AggregatePayment, refund.paymentID, domoutbox.EventPaymentRefunded, outbox.PaymentEvent{
			OrderID:   o.ID(),
			PaymentID: refund.paymentID,
			Amount:    refund.amount.Amount().StringFixed(2),
			Currency:  refund.amount.Currency(),
			Status:    string(refund.status),
			Reason:    string(o.FailureReason()),
		})
		return err
	})
}

type refundOutcome struct {
	paymentID string
	amount    money.Money
	status    payment.Status
}

// refund returns exactly what is still refundable on the capture, so a
// compensation resumed after a crash never refunds twice. A nil outcome with
// a nil error means nothing was left to refund.
func (s *orchestratorImpl) refund(ctx context.Context, o *order.Order) (*refundOutcome, error) {
	paymentID := deref(o.PaymentID())
	var out *refundOutcome
	err := s.compensationPolicy.Do(ctx, s.logger, func(ctx context.Context) error {
		d, err := s.gateway.GetPaymentStatus(ctx, paymentID)
		if err != nil {
			return err
		}
		remaining, err := d.Amount.Sub(d.Refunded)
		if err != nil {
			return err
		}
		if !remaining.IsPositive() {
			return nil
		}
		r, err := s.gateway.RefundPayment(ctx, paymentID, remaining, string(o.FailureReason()))
		if err != nil {
			return err
		}
		out = &refundOutcome{paymentID: paymentID, amount: remaining, status: r.Status}
		return nil
	}, func(err error) bool { return payment.Classify(err) == errs.ClassRetriable })
	if err != nil {
		s.logger.Error("refund failed",
			"order_id", o.ID().String(), "payment_id", paymentID, "error", err.Error(), "manual_intervention", true)
		return nil, err
	}
	if out != nil {
		s.logger.Info("payment refunded", "order_id", o.ID().String(), "payment_id", paymentID, "amount", out.amount.String())
	}
	return out, nil
}

// releaseAll reports whether every hold of the order is free.
func (s *orchestratorImpl) releaseAll(ctx context.Context, o *order.Order) bool {
	var freed int
	err := s.compensationPolicy.Do(ctx, s.logger, func(ctx context.Context) error {
		n, err := s.ledger.ReleaseAll(ctx, o.ID())
		freed = n
		return err
	}, errs.IsRetriable)
	if err != nil {
		s.logger.Error("releasing reservations failed",
			"order_id", o.ID().String(), "error", err.Error(), "manual_intervention", true)
		return false
	}
	if freed > 0 {
		s.logger.Info("reservations released", "order_id", o.ID().String(), "quantity", freed)
	}
	return true
}

func (s *orchestratorImpl) Cancel(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "saga.cancel", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	for range 3 {
		o, err := s.load(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if o.Status() == order.StatusCancelled {
			return o, nil
		}
		t, err := s.next(o, domsaga.EventCancelRequested)
		if err != nil {
			return nil, errs.Wrapf(ErrNotCancellable, "order %s is %s", orderID, o.Status())
		}
		err = s.commit(ctx, o, t, domsaga.Reason(domsaga.EventCancelRequested), nil)
		if infra.IsKind(err, infra.KindConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if t.Has(domsaga.ActionReleaseReservations) && !s.releaseAll(ctx, o) {
			o.MarkCompensationIncomplete()
			if err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				return tx.Orders().Update(ctx, o, order.StatusCancelled)
			}); err != nil {
				s.logger.Error("failed to flag incomplete cancellation", "order_id", orderID.String(), "error", err.Error())
			}
		}
		s.logger.Info("order cancelled by user", "order_id", orderID.String(), "from", string(t.From))
		return o, nil
	}
	return nil, errs.Wrapf(ErrNotCancellable, "order %s keeps changing", orderID)
}

// commit persists the transition guarded by its source status, together with
// the notification entries its actions ask for and any extra writes.
func (s *orchestratorImpl) commit(ctx context.Context, o *order.Order, t domsaga.Transition, reason order.FailureReason, extra func(context.Context, shared.Tx) error) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if reason != order.ReasonNone {
			o.Fail(reason)
		}
		o.MoveTo(t.To, s.clock.Now())
		if err := tx.Orders().Update(ctx, o, t.From); err != nil {
			return err
		}
		if extra != nil {
			if err := extra(ctx, tx); err != nil {
				return err
			}
		}
		for _, a := range t.Actions {
			eventType, ok := notifyEvents[a]
			if !ok {
				continue
			}
			if _, err := s.appender.Append(ctx, tx, domoutbox.AggregateOrder, o.ID().String(), eventType, outbox.NewOrderEvent(o)); err != nil {
				return err
			}
		}
		return nil
	})
}

var notifyEvents = map[domsaga.Action]string{
	domsaga.ActionNotifyConfirmed: domoutbox.EventOrderConfirmed,
	domsaga.ActionNotifyFailure:   domoutbox.EventOrderFailed,
	domsaga.ActionNotifyCancelled: domoutbox.EventOrderCancelled,
}

func (s *orchestratorImpl) next(o *order.Order, ev domsaga.Event) (domsaga.Transition, error) {
	return domsaga.Next(domsaga.State{Status: o.Status(), HasPayment: o.HasPayment()}, ev)
}

func (s *orchestratorImpl) load(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	var o *order.Order
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		o, err = tx.Orders().FindByID(ctx, orderID)
		return err
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Wrapf(ErrOrderNotFound, "order %s", orderID)
	}
	if err != nil {
		return nil, errs.Wrap(err, "failed to load order")
	}
	return o, nil
}

func (s *orchestratorImpl) location(it order.Item) string {
	if it.Location() != "" {
		return it.Location()
	}
	return s.cfg.DefaultLocation
}

// PaymentIdempotencyKey is stable for an order across rounds and redeliveries.
func PaymentIdempotencyKey(orderID uuid.UUID) string {
	return "order-" + orderID.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
