package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, idempotency_key, status, total_minor, currency, payment_method, payment_id,
	failure_reason, payment_rounds, compensation_incomplete, created_at, updated_at, processing_started_at, completed_at`

func scanOrder(row pgx.Row) (Orders, error) {
	var i Orders
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.IdempotencyKey,
		&i.Status,
		&i.TotalMinor,
		&i.Currency,
		&i.PaymentMethod,
		&i.PaymentID,
		&i.FailureReason,
		&i.PaymentRounds,
		&i.CompensationIncomplete,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.ProcessingStartedAt,
		&i.CompletedAt,
	)
	return i, err
}

const createOrder = `-- name: CreateOrder :exec
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

type CreateOrderParams = Orders

func (q *Queries) CreateOrder(ctx context.Context, db DBTX, arg CreateOrderParams) error {
	_, err := db.Exec(ctx, createOrder,
		arg.ID,
		arg.UserID,
		arg.IdempotencyKey,
		arg.Status,
		arg.TotalMinor,
		arg.Currency,
		arg.PaymentMethod,
		arg.PaymentID,
		arg.FailureReason,
		arg.PaymentRounds,
		arg.CompensationIncomplete,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.ProcessingStartedAt,
		arg.CompletedAt,
	)
	return err
}

const createOrderItem = `-- name: CreateOrderItem :exec
INSERT INTO order_items (order_id, line_no, product_id, location, quantity, unit_price_minor)
VALUES ($1, $2, $3, $4, $5, $6)
`

func (q *Queries) CreateOrderItem(ctx context.Context, db DBTX, arg OrderItems) error {
	_, err := db.Exec(ctx, createOrderItem,
		arg.OrderID,
		arg.LineNo,
		arg.ProductID,
		arg.Location,
		arg.Quantity,
		arg.UnitPriceMinor,
	)
	return err
}

const getOrderByID = `-- name: GetOrderByID :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, db DBTX, id uuid.UUID) (Orders, error) {
	return scanOrder(db.QueryRow(ctx, getOrderByID, id))
}

const getOrderByIdempotencyKey = `-- name: GetOrderByIdempotencyKey :one
SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key = $1
`

func (q *Queries) GetOrderByIdempotencyKey(ctx context.Context, db DBTX, key string) (Orders, error) {
	return scanOrder(db.QueryRow(ctx, getOrderByIdempotencyKey, key))
}

const listOrderItems = `-- name: ListOrderItems :many
SELECT order_id, line_no, product_id, location, quantity, unit_price_minor
FROM order_items
WHERE order_id = $1
ORDER BY line_no
`

func (q *Queries) ListOrderItems(ctx context.Context, db DBTX, orderID uuid.UUID) ([]OrderItems, error) {
	rows, err := db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItems
	for rows.Next() {
		var i OrderItems
		if err := rows.Scan(
			&i.OrderID,
			&i.LineNo,
			&i.ProductID,
			&i.Location,
			&i.Quantity,
			&i.UnitPriceMinor,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderGuarded = `-- name: UpdateOrderGuarded :execrows
UPDATE orders
SET status = $2,
    payment_id = $3,
    failure_reason = $4,
    payment_rounds = $5,
    compensation_incomplete = $6,
    updated_at = $7,
    processing_started_at = $8,
    completed_at = $9
WHERE id = $1 AND status = $10
`

type UpdateOrderGuardedParams struct {
	ID                     uuid.UUID          `json:"id"`
	Status                 string             `json:"status"`
	PaymentID              pgtype.Text        `json:"payment_id"`
	FailureReason          pgtype.Text        `json:"failure_reason"`
	PaymentRounds          int32              `json:"payment_rounds"`
	CompensationIncomplete bool               `json:"compensation_incomplete"`
	UpdatedAt              pgtype.Timestamptz `json:"updated_at"`
	ProcessingStartedAt    pgtype.Timestamptz `json:"processing_started_at"`
	CompletedAt            pgtype.Timestamptz `json:"completed_at"`
	ExpectedStatus         string             `json:"expected_status"`
}

func (q *Queries) UpdateOrderGuarded(ctx context.Context, db DBTX, arg UpdateOrderGuardedParams) (int64, error) {
	result, err := db.Exec(ctx, updateOrderGuarded,
		arg.ID,
		arg.Status,
		arg.PaymentID,
		arg.FailureReason,
		arg.PaymentRounds,
		arg.CompensationIncomplete,
		arg.UpdatedAt,
		arg.ProcessingStartedAt,
		arg.CompletedAt,
		arg.ExpectedStatus,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
