package repository

import (
	"context"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

//go:generate mockgen -source=inventory.go -destination=../../../tests/mock/repository/inventory.go -package=repositorymock
type InventoryQueries interface {
	CreateInventoryRecord(ctx context.Context, db sqlc.DBTX, arg sqlc.InventoryRecords) error
	GetInventoryRecord(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.InventoryRecords, error)
	GetInventoryByProductLocation(ctx context.Context, db sqlc.DBTX, productID uuid.UUID, location string) (sqlc.InventoryRecords, error)
	LockInventoryRecord(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.InventoryRecords, error)
	LockInventoryByProductLocation(ctx context.Context, db sqlc.DBTX, productID uuid.UUID, location string) (sqlc.InventoryRecords, error)
	UpdateInventoryStock(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateInventoryStockParams) (int64, error)
	ListLowStock(ctx context.Context, db sqlc.DBTX, arg sqlc.ListStockParams) ([]sqlc.InventoryRecords, error)
	CountLowStock(ctx context.Context, db sqlc.DBTX, location pgtype.Text) (int64, error)
	ListOutOfStock(ctx context.Context, db sqlc.DBTX, arg sqlc.ListStockParams) ([]sqlc.InventoryRecords, error)
	CountOutOfStock(ctx context.Context, db sqlc.DBTX, location pgtype.Text) (int64, error)
}

type InventoryRepository struct {
	queries InventoryQueries
	db      sqlc.DBTX
}

func NewInventoryRepository(queries InventoryQueries, db sqlc.DBTX) *InventoryRepository {
	return &InventoryRepository{
		queries: queries,
		db:      db,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, rec *inventory.Record) error {
	if err := r.queries.CreateInventoryRecord(ctx, r.db, converter.RecordToRow(rec)); err != nil {
		return infra.WrapRepoErr("failed to create inventory record", err)
	}
	return nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Record, error) {
	row, err := r.queries.GetInventoryRecord(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find inventory record", err)
	}
	return converter.RecordToDomain(row), nil
}

func (r *InventoryRepository) FindByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error) {
	row, err := r.queries.GetInventoryByProductLocation(ctx, r.db, productID, location)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find inventory record", err)
	}
	return converter.RecordToDomain(row), nil
}

func (r *InventoryRepository) LockByID(ctx context.Context, id uuid.UUID) (*inventory.Record, error) {
	row, err := r.queries.LockInventoryRecord(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock inventory record", err)
	}
	return converter.RecordToDomain(row), nil
}

func (r *InventoryRepository) LockByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error) {
	row, err := r.queries.LockInventoryByProductLocation(ctx, r.db, productID, location)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock inventory record", err)
	}
	return converter.RecordToDomain(row), nil
}

func (r *InventoryRepository) UpdateStock(ctx context.Context, rec *inventory.Record) error {
	affected, err := r.queries.UpdateInventoryStock(ctx, r.db, sqlc.UpdateInventoryStockParams{
		ID:            rec.ID(),
		PhysicalStock: pgconv.IntToInt32(rec.PhysicalStock()),
		ReservedStock: pgconv.IntToInt32(rec.ReservedStock()),
		UpdatedAt:     pgconv.TimeToPgtype(rec.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update inventory stock", err)
	}
	if affected == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	return nil
}

func (r *InventoryRepository) ListLowStock(ctx context.Context, f shared.StockFilter) ([]*inventory.Record, int, error) {
	params := stockParams(f)
	rows, err := r.queries.ListLowStock(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list low stock", err)
	}
	total, err := r.queries.CountLowStock(ctx, r.db, params.Location)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count low stock", err)
	}
	return converter.RecordsToDomain(rows), int(total), nil
}

func (r *InventoryRepository) ListOutOfStock(ctx context.Context, f shared.StockFilter) ([]*inventory.Record, int, error) {
	params := stockParams(f)
	rows, err := r.queries.ListOutOfStock(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list out of stock", err)
	}
	total, err := r.queries.CountOutOfStock(ctx, r.db, params.Location)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count out of stock", err)
	}
	return converter.RecordsToDomain(rows), int(total), nil
}

func stockParams(f shared.StockFilter) sqlc.ListStockParams {
	return sqlc.ListStockParams{
		Location: pgconv.StringPtrToPgtype(f.Location),
		Limit:    pgconv.IntToInt32(f.Limit),
		Offset:   pgconv.IntToInt32(f.Offset),
	}
}
