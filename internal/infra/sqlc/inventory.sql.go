package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const inventoryColumns = `id, product_id, location, physical_stock, reserved_stock, minimum_stock, reorder_point,
	created_at, updated_at`

func scanInventoryRecord(row pgx.Row) (InventoryRecords, error) {
	var i InventoryRecords
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Location,
		&i.PhysicalStock,
		&i.ReservedStock,
		&i.MinimumStock,
		&i.ReorderPoint,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectInventoryRecords(rows pgx.Rows) ([]InventoryRecords, error) {
	defer rows.Close()
	var items []InventoryRecords
	for rows.Next() {
		i, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createInventoryRecord = `-- name: CreateInventoryRecord :exec
INSERT INTO inventory_records (` + inventoryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (q *Queries) CreateInventoryRecord(ctx context.Context, db DBTX, arg InventoryRecords) error {
	_, err := db.Exec(ctx, createInventoryRecord,
		arg.ID,
		arg.ProductID,
		arg.Location,
		arg.PhysicalStock,
		arg.ReservedStock,
		arg.MinimumStock,
		arg.ReorderPoint,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getInventoryRecord = `-- name: GetInventoryRecord :one
SELECT ` + inventoryColumns + ` FROM inventory_records WHERE id = $1
`

func (q *Queries) GetInventoryRecord(ctx context.Context, db DBTX, id uuid.UUID) (InventoryRecords, error) {
	return scanInventoryRecord(db.QueryRow(ctx, getInventoryRecord, id))
}

const getInventoryByProductLocation = `-- name: GetInventoryByProductLocation :one
SELECT ` + inventoryColumns + ` FROM inventory_records WHERE product_id = $1 AND location = $2
`

func (q *Queries) GetInventoryByProductLocation(ctx context.Context, db DBTX, productID uuid.UUID, location string) (InventoryRecords, error) {
	return scanInventoryRecord(db.QueryRow(ctx, getInventoryByProductLocation, productID, location))
}

// Locks are taken on inventory_records alone. FOR UPDATE through an outer
// join fails on the nullable side, so no lock query joins reservations.
const lockInventoryRecord = `-- name: LockInventoryRecord :one
SELECT ` + inventoryColumns + ` FROM inventory_records WHERE id = $1 FOR UPDATE
`

func (q *Queries) LockInventoryRecord(ctx context.Context, db DBTX, id uuid.UUID) (InventoryRecords, error) {
	return scanInventoryRecord(db.QueryRow(ctx, lockInventoryRecord, id))
}

const lockInventoryByProductLocation = `-- name: LockInventoryByProductLocation :one
SELECT ` + inventoryColumns + ` FROM inventory_records WHERE product_id = $1 AND location = $2 FOR UPDATE
`

func (q *Queries) LockInventoryByProductLocation(ctx context.Context, db DBTX, productID uuid.UUID, location string) (InventoryRecords, error) {
	return scanInventoryRecord(db.QueryRow(ctx, lockInventoryByProductLocation, productID, location))
}

const updateInventoryStock = `-- name: UpdateInventoryStock :execrows
UPDATE inventory_records
SET physical_stock = $2, reserved_stock = $3, updated_at = $4
WHERE id = $1
`

type UpdateInventoryStockParams struct {
	ID            uuid.UUID          `json:"id"`
	PhysicalStock int32              `json:"physical_stock"`
	ReservedStock int32              `json:"reserved_stock"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateInventoryStock(ctx context.Context, db DBTX, arg UpdateInventoryStockParams) (int64, error) {
	result, err := db.Exec(ctx, updateInventoryStock, arg.ID, arg.PhysicalStock, arg.ReservedStock, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type ListStockParams struct {
	Location pgtype.Text `json:"location"`
	Limit    int32       `json:"limit"`
	Offset   int32       `json:"offset"`
}

const listLowStock = `-- name: ListLowStock :many
SELECT ` + inventoryColumns + `
FROM inventory_records
WHERE physical_stock - reserved_stock <= reorder_point
  AND ($1::text IS NULL OR location = $1)
ORDER BY physical_stock - reserved_stock, id
LIMIT $2 OFFSET $3
`

func (q *Queries) ListLowStock(ctx context.Context, db DBTX, arg ListStockParams) ([]InventoryRecords, error) {
	rows, err := db.Query(ctx, listLowStock, arg.Location, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectInventoryRecords(rows)
}

const countLowStock = `-- name: CountLowStock :one
SELECT count(*) FROM inventory_records
WHERE physical_stock - reserved_stock <= reorder_point
  AND ($1::text IS NULL OR location = $1)
`

func (q *Queries) CountLowStock(ctx context.Context, db DBTX, location pgtype.Text) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, countLowStock, location).Scan(&count)
	return count, err
}

const listOutOfStock = `-- name: ListOutOfStock :many
SELECT ` + inventoryColumns + `
FROM inventory_records
WHERE physical_stock - reserved_stock <= 0
  AND ($1::text IS NULL OR location = $1)
ORDER BY updated_at DESC, id
LIMIT $2 OFFSET $3
`

func (q *Queries) ListOutOfStock(ctx context.Context, db DBTX, arg ListStockParams) ([]InventoryRecords, error) {
	rows, err := db.Query(ctx, listOutOfStock, arg.Location, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectInventoryRecords(rows)
}

const countOutOfStock = `-- name: CountOutOfStock :one
SELECT count(*) FROM inventory_records
WHERE physical_stock - reserved_stock <= 0
  AND ($1::text IS NULL OR location = $1)
`

func (q *Queries) CountOutOfStock(ctx context.Context, db DBTX, location pgtype.Text) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, countOutOfStock, location).Scan(&count)
	return count, err
}
