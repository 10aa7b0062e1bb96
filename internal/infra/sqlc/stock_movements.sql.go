package sqlc

import (
	"context"

	"github.com/google/uuid"
)

const insertStockMovement = `-- name: InsertStockMovement :exec
INSERT INTO stock_movements (id, inventory_id, movement_type, quantity_delta, reason, resulting_physical_stock, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (q *Queries) InsertStockMovement(ctx context.Context, db DBTX, arg StockMovements) error {
	_, err := db.Exec(ctx, insertStockMovement,
		arg.ID,
		arg.InventoryID,
		arg.MovementType,
		arg.QuantityDelta,
		arg.Reason,
		arg.ResultingPhysicalStock,
		arg.CreatedAt,
	)
	return err
}

const listStockMovements = `-- name: ListStockMovements :many
SELECT id, inventory_id, movement_type, quantity_delta, reason, resulting_physical_stock, created_at
FROM stock_movements
WHERE inventory_id = $1
ORDER BY created_at DESC, id
LIMIT $2
`

func (q *Queries) ListStockMovements(ctx context.Context, db DBTX, inventoryID uuid.UUID, limit int32) ([]StockMovements, error) {
	rows, err := db.Query(ctx, listStockMovements, inventoryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StockMovements
	for rows.Next() {
		var i StockMovements
		if err := rows.Scan(
			&i.ID,
			&i.InventoryID,
			&i.MovementType,
			&i.QuantityDelta,
			&i.Reason,
			&i.ResultingPhysicalStock,
			&i.CreatedAt,
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
