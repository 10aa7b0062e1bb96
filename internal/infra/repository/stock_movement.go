package repository

import (
	"context"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type StockMovementQueries interface {
	InsertStockMovement(ctx context.Context, db sqlc.DBTX, arg sqlc.StockMovements) error
	ListStockMovements(ctx context.Context, db sqlc.DBTX, inventoryID uuid.UUID, limit int32) ([]sqlc.StockMovements, error)
}

type StockMovementRepository struct {
	queries StockMovementQueries
	db      sqlc.DBTX
}

func NewStockMovementRepository(queries StockMovementQueries, db sqlc.DBTX) *StockMovementRepository {
	return &StockMovementRepository{
		queries: queries,
		db:      db,
	}
}

func (r *StockMovementRepository) Append(ctx context.Context, m *inventory.StockMovement) error {
	if err := r.queries.InsertStockMovement(ctx, r.db, converter.MovementToRow(m)); err != nil {
		return infra.WrapRepoErr("failed to append stock movement", err)
	}
	return nil
}

func (r *StockMovementRepository) ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit int) ([]*inventory.StockMovement, error) {
	rows, err := r.queries.ListStockMovements(ctx, r.db, inventoryID, pgconv.IntToInt32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stock movements", err)
	}
	out := make([]*inventory.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, converter.MovementToDomain(row))
	}
	return out, nil
}
