package commands

import (
	"context"
	"log/slog"

	"order-fulfillment/internal/domain/order"
	domoutbox "order-fulfillment/internal/domain/outbox"
	reqdto "order-fulfillment/internal/handler/dto/request"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/queries"
	"order-fulfillment/internal/usecase/saga"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidOrder            = errs.New("invalid order")
	ErrIdempotencyKeyReused    = errs.NewClassed("idempotency key belongs to another user's order", errs.ClassConflict)
	ErrSchedulingFailed        = errs.NewClassed("order accepted but processing could not be scheduled", errs.ClassRetriable)
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type PlaceOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

//go:generate mockgen -source=order.go -destination=../../../tests/mock/commands/order.go -package=commandsmock
type OrderCommands interface {
	PlaceOrder(ctx context.Context, req reqdto.PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*queries.OrderView, error)
}

type orderCommandsImpl struct {
	uow       shared.UnitOfWork
	saga      saga.OrderSaga
	scheduler OrderScheduler
	appender  *outbox.Appender
	clock     clock.Clock
	cfg       config.SagaConfig
	logger    *slog.Logger
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	orderSaga saga.OrderSaga,
	scheduler OrderScheduler,
	clk clock.Clock,
	cfg config.SagaConfig,
	logger *slog.Logger,
) OrderCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderCommandsImpl{
		uow:       uow,
		saga:      orderSaga,
		scheduler: scheduler,
		appender:  outbox.NewAppender(clk),
		clock:     clk,
		cfg:       cfg,
		logger:    logger,
	}
}

// PlaceOrder validates and stores a PENDING order with its OrderCreated entry,
// then schedules the saga. A key seen before replays the stored order.
func (u *orderCommandsImpl) PlaceOrder(ctx context.Context, req reqdto.PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error) {
	items, err := req.ToItems(u.cfg.DefaultLocation)
	if err != nil {
		return nil, classified(err, ErrInvalidOrder, errs.ClassValidation)
	}
	o, err := order.NewOrder(req.UserID, idempotencyKey, items, req.Currency, req.PaymentMethod, u.clock.Now())
	if err != nil {
		return nil, classified(err, ErrInvalidOrder, errs.ClassValidation)
	}

	existing, err := u.insert(ctx, o)
	if infra.IsKind(err, infra.KindDuplicateKey) {
		// Lost a race with a concurrent request carrying the same key.
		existing, err = u.findByKey(ctx, o.IdempotencyKey())
	}
	if err != nil {
		return nil, classified(err, ErrDatabaseOperationFailed, errs.ClassRetriable)
	}
	if existing != nil {
		return u.replay(ctx, existing, req.UserID)
	}

	u.logger.Info("order placed",
		"order_id", o.ID().String(), "user_id", o.UserID().String(), "total", o.Total().String(), "items", len(items))
	if err := u.schedule(ctx, o.ID()); err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: queries.NewOrderView(o), IsReplayed: false}, nil
}

// insert returns the stored order when the key is already taken.
func (u *orderCommandsImpl) insert(ctx context.Context, o *order.Order) (*order.Order, error) {
	var existing *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Orders().FindByIdempotencyKey(ctx, o.IdempotencyKey())
		if err == nil {
			existing = found
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		_, err = u.appender.Append(ctx, tx, domoutbox.AggregateOrder, o.ID().String(), domoutbox.EventOrderCreated, outbox.NewOrderEvent(o))
		return err
	})
	return existing, err
}

func (u *orderCommandsImpl) findByKey(ctx context.Context, key string) (*order.Order, error) {
	var o *order.Order
	err := u.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		o, err = tx.Orders().FindByIdempotencyKey(ctx, key)
		return err
	})
	return o, err
}

// replay returns the stored order. A replay of a still PENDING order schedules
// it again, which recovers an order whose first schedule failed; the job id
// keeps a healthy order from running twice.
func (u *orderCommandsImpl) replay(ctx context.Context, o *order.Order, userID uuid.UUID) (*PlaceOrderResult, error) {
	if o.UserID() != userID {
		return nil, errs.Wrapf(ErrIdempotencyKeyReused, "key %q", o.IdempotencyKey())
	}
	u.logger.Info("order replayed", "order_id", o.ID().String(), "idempotency_key", o.IdempotencyKey(), "status", string(o.Status()))
	if o.Status() == order.StatusPending {
		if err := u.schedule(ctx, o.ID()); err != nil {
			return nil, err
		}
	}
	return &PlaceOrderResult{Order: queries.NewOrderView(o), IsReplayed: true}, nil
}

func (u *orderCommandsImpl) schedule(ctx context.Context, orderID uuid.UUID) error {
	if err := u.scheduler.Schedule(ctx, orderID, 0, 0); err != nil {
		u.logger.Error("failed to schedule order processing", "order_id", orderID.String(), "error", err.Error())
		return classified(err, ErrSchedulingFailed, errs.ClassRetriable)
	}
	return nil
}

// classified marks err with a sentinel and re-tags it, since a mark does not
// carry the sentinel's class.
func classified(err, sentinel error, class errs.Class) error {
	return errs.WithClass(errs.Mark(err, sentinel), class)
}

func (u *orderCommandsImpl) CancelOrder(ctx context.Context, orderID uuid.UUID) (*queries.OrderView, error) {
	o, err := u.saga.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return queries.NewOrderView(o), nil
}
