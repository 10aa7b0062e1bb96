//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStockMovementQueries struct {
	mock.Mock
}

func (m *MockStockMovementQueries) InsertStockMovement(ctx context.Context, db sqlc.DBTX, arg sqlc.StockMovements) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockStockMovementQueries) ListStockMovements(ctx context.Context, db sqlc.DBTX, inventoryID uuid.UUID, limit int32) ([]sqlc.StockMovements, error) {
	args := m.Called(ctx, db, inventoryID, limit)
	if rows := args.Get(0); rows != nil {
		return rows.([]sqlc.StockMovements), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStockMovementRepository_Append(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := builder.NewInventoryBuilder().WithStock(40, 0).BuildDomain()
	mv := inventory.NewStockMovement(rec, inventory.MovementDamage, -2, "crushed pallet", now)

	t.Run("success", func(t *testing.T) {
		mockQueries := new(MockStockMovementQueries)
		mockDB := &mockDBTX{}
		repo := repository.NewStockMovementRepository(mockQueries, mockDB)

		mockQueries.On("InsertStockMovement", ctx, mockDB, mock.MatchedBy(func(row sqlc.StockMovements) bool {
			return row.ID == mv.ID &&
				row.InventoryID == rec.ID() &&
				row.MovementType == "DAMAGE" &&
				row.QuantityDelta == -2 &&
				row.ResultingPhysicalStock == int32(mv.ResultingPhysicalStock) &&
				row.CreatedAt.Time.Equal(now)
		})).Return(nil)

		require.NoError(t, repo.Append(ctx, mv))
		mockQueries.AssertExpectations(t)
	})

	t.Run("error: database failure", func(t *testing.T) {
		mockQueries := new(MockStockMovementQueries)
		mockDB := &mockDBTX{}
		repo := repository.NewStockMovementRepository(mockQueries, mockDB)

		mockQueries.On("InsertStockMovement", ctx, mockDB, mock.Anything).Return(errors.New("insert failed"))

		err := repo.Append(ctx, mv)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		mockQueries.AssertExpectations(t)
	})
}

func TestStockMovementRepository_ListByInventory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := builder.NewInventoryBuilder().WithStock(40, 0).BuildDomain()
	first := inventory.NewStockMovement(rec, inventory.MovementRestock, 10, "delivery", now)
	second := inventory.NewStockMovement(rec, inventory.MovementSale, -1, "walk-in", now.Add(time.Minute))

	t.Run("success: rows mapped in order", func(t *testing.T) {
		mockQueries := new(MockStockMovementQueries)
		mockDB := &mockDBTX{}
		repo := repository.NewStockMovementRepository(mockQueries, mockDB)

		mockQueries.On("ListStockMovements", ctx, mockDB, rec.ID(), int32(50)).
			Return([]sqlc.StockMovements{converter.MovementToRow(first), converter.MovementToRow(second)}, nil)

		got, err := repo.ListByInventory(ctx, rec.ID(), 50)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ID, got[0].ID)
		assert.Equal(t, inventory.MovementRestock, got[0].MovementType)
		assert.Equal(t, -1, got[1].QuantityDelta)
		assert.True(t, got[1].CreatedAt.Equal(now.Add(time.Minute)))
		mockQueries.AssertExpectations(t)
	})

	t.Run("success: no movements", func(t *testing.T) {
		mockQueries := new(MockStockMovementQueries)
		mockDB := &mockDBTX{}
		repo := repository.NewStockMovementRepository(mockQueries, mockDB)

		mockQueries.On("ListStockMovements", ctx, mockDB, rec.ID(), int32(10)).Return(nil, nil)

		got, err := repo.ListByInventory(ctx, rec.ID(), 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("error: database failure", func(t *testing.T) {
		mockQueries := new(MockStockMovementQueries)
		mockDB := &mockDBTX{}
		repo := repository.NewStockMovementRepository(mockQueries, mockDB)

		mockQueries.On("ListStockMovements", ctx, mockDB, rec.ID(), int32(10)).Return(nil, errors.New("timeout"))

		_, err := repo.ListByInventory(ctx, rec.ID(), 10)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
