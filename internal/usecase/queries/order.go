package queries

import (
	"context"
	"time"

	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.NewClassed("order not found", errs.ClassNotFound)

// Read models (DTO for read side)
type OrderView struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	IdempotencyKey         string
	Status                 string
	FailureReason          *string
	PaymentID              *string
	PaymentMethod          string
	PaymentRounds          int
	CompensationIncomplete bool
	Total                  string
	Currency               string
	Items                  []OrderItemView
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ProcessingStartedAt    *time.Time
	CompletedAt            *time.Time
}

type OrderItemView struct {
	ProductID  uuid.UUID
	Location   string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

func NewOrderView(o *order.Order) *OrderView {
	v := &OrderView{
		ID:                     o.ID(),
		UserID:                 o.UserID(),
		IdempotencyKey:         o.IdempotencyKey(),
		Status:                 string(o.Status()),
		PaymentID:              o.PaymentID(),
		PaymentMethod:          o.PaymentMethod(),
		PaymentRounds:          o.PaymentRounds(),
		CompensationIncomplete: o.CompensationIncomplete(),
		Total:                  o.Total().Amount().StringFixed(2),
		Currency:               o.Currency(),
		CreatedAt:              o.CreatedAt(),
		UpdatedAt:              o.UpdatedAt(),
		ProcessingStartedAt:    o.ProcessingStartedAt(),
		CompletedAt:            o.CompletedAt(),
	}
	if r := o.FailureReason(); r != order.ReasonNone {
		s := string(r)
		v.FailureReason = &s
	}
	for _, it := range o.Items() {
		v.Items = append(v.Items, OrderItemView{
			ProductID:  it.ProductID(),
			Location:   it.Location(),
			Quantity:   it.Quantity(),
			UnitPrice:  it.UnitPrice().Amount().StringFixed(2),
			TotalPrice: it.TotalPrice().Amount().StringFixed(2),
		})
	}
	return v
}

//go:generate mockgen -source=order.go -destination=../../../tests/mock/queries/order.go -package=queriesmock
type OrderQueries interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
}

type orderQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewOrderQueries(uow shared.UnitOfWork) OrderQueries {
	return &orderQueriesImpl{uow: uow}
}

func (q *orderQueriesImpl) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	var o *order.Order
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		o, err = tx.Orders().FindByID(ctx, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(ErrOrderNotFound, "order %s", id)
		}
		return nil, errs.Wrap(err, "failed to load order")
	}
	return NewOrderView(o), nil
}
