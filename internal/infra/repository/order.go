package repository

import (
	"context"

	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"

	"github.com/google/uuid"
)

//go:generate mockgen -source=order.go -destination=../../../tests/mock/repository/order.go -package=repositorymock
type OrderQueries interface {
	CreateOrder(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateOrderParams) error
	CreateOrderItem(ctx context.Context, db sqlc.DBTX, arg sqlc.OrderItems) error
	GetOrderByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Orders, error)
	GetOrderByIdempotencyKey(ctx context.Context, db sqlc.DBTX, key string) (sqlc.Orders, error)
	ListOrderItems(ctx context.Context, db sqlc.DBTX, orderID uuid.UUID) ([]sqlc.OrderItems, error)
	UpdateOrderGuarded(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateOrderGuardedParams) (int64, error)
}

type OrderRepository struct {
	queries OrderQueries
	db      sqlc.DBTX
}

func NewOrderRepository(queries OrderQueries, db sqlc.DBTX) *OrderRepository {
	return &OrderRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := r.queries.CreateOrder(ctx, r.db, converter.OrderToRow(o)); err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}
	for _, item := range converter.OrderItemsToRows(o) {
		if err := r.queries.CreateOrderItem(ctx, r.db, item); err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row, err := r.queries.GetOrderByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	return r.withItems(ctx, row)
}

func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	row, err := r.queries.GetOrderByIdempotencyKey(ctx, r.db, key)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order by idempotency key", err)
	}
	return r.withItems(ctx, row)
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	affected, err := r.queries.UpdateOrderGuarded(ctx, r.db, converter.OrderToUpdateParams(o, expected))
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if affected == 0 {
		return infra.NewRepoErr(infra.KindConflict, "order status changed concurrently")
	}
	return nil
}

func (r *OrderRepository) withItems(ctx context.Context, row sqlc.Orders) (*order.Order, error) {
	items, err := r.queries.ListOrderItems(ctx, r.db, row.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	o, err := converter.OrderToDomain(row, items)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert order", err, infra.KindDBFailure)
	}
	return o, nil
}
