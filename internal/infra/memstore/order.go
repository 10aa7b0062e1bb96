package memstore

import (
	"context"

	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/infra"

	"github.com/google/uuid"
)

type orderRepo struct{ st *state }

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	if _, ok := r.st.orderByKey[o.IdempotencyKey()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "order idempotency key already exists")
	}
	if _, ok := r.st.orders[o.ID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "order id already exists")
	}
	r.st.orders[o.ID()] = o.Snapshot()
	r.st.orderByKey[o.IdempotencyKey()] = o.ID()
	return nil
}

func (r orderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	p, ok := r.st.orders[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	return order.Reconstruct(p), nil
}

func (r orderRepo) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	id, ok := r.st.orderByKey[key]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	return r.FindByID(ctx, id)
}

func (r orderRepo) Update(_ context.Context, o *order.Order, expected order.Status) error {
	cur, ok := r.st.orders[o.ID()]
	if !ok || cur.Status != expected {
		return infra.NewRepoErr(infra.KindConflict, "order status changed concurrently")
	}
	r.st.orders[o.ID()] = o.Snapshot()
	return nil
}
