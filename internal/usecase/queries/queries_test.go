//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/infra/memstore"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/queries"
	"order-fulfillment/internal/usecase/shared"
	"order-fulfillment/tests/common/builder"
	ledgermock "order-fulfillment/tests/mock/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestValidateLimit(t *testing.T) {
	testCases := []struct {
		in, want int
	}{
		{in: 0, want: queries.DefaultListLimit},
		{in: -5, want: queries.DefaultListLimit},
		{in: 1, want: 1},
		{in: 200, want: 200},
		{in: 201, want: queries.MaxListLimit},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, queries.ValidateLimit(tc.in), "limit %d", tc.in)
	}
	assert.Equal(t, 1, queries.ValidatePage(0))
	assert.Equal(t, 3, queries.ValidatePage(3))
}

func TestOrderQueries_GetOrder(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	q := queries.NewOrderQueries(store)

	o := builder.NewOrderBuilder().BuildInStatus(order.StatusCancelled)
	snap := o.Snapshot()
	snap.FailureReason = order.ReasonPaymentDeclined
	snap.CompensationIncomplete = true
	pid := "pay_123"
	snap.PaymentID = &pid
	o = order.Reconstruct(snap)
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	}))

	t.Run("success", func(t *testing.T) {
		v, err := q.GetOrder(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", v.Status)
		require.NotNil(t, v.FailureReason)
		assert.Equal(t, "PAYMENT_DECLINED", *v.FailureReason)
		assert.Equal(t, &pid, v.PaymentID)
		assert.True(t, v.CompensationIncomplete)
		assert.Equal(t, "50.00", v.Total)
		require.Len(t, v.Items, 1)
		assert.Equal(t, "25.00", v.Items[0].UnitPrice)
		assert.Equal(t, "50.00", v.Items[0].TotalPrice)
	})

	t.Run("error: not found", func(t *testing.T) {
		_, err := q.GetOrder(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errs.Is(err, queries.ErrOrderNotFound))
		assert.Equal(t, errs.ClassNotFound, errs.ClassOf(err))
	})
}

func TestStockQueries_List(t *testing.T) {
	ctx := context.Background()
	rec := builder.NewInventoryBuilder().WithStock(8, 2).BuildDomain()

	testCases := []struct {
		name       string
		filters    queries.StockFilters
		wantFilter func(t *testing.T, f shared.StockFilter)
		wantPage   int
		wantLimit  int
	}{
		{
			name:    "defaults",
			filters: queries.StockFilters{},
			wantFilter: func(t *testing.T, f shared.StockFilter) {
				assert.Nil(t, f.Location)
				assert.Equal(t, 20, f.Limit)
				assert.Equal(t, 0, f.Offset)
			},
			wantPage:  1,
			wantLimit: 20,
		},
		{
			name:    "location and third page",
			filters: queries.StockFilters{Location: " east ", Page: 3, Limit: 10},
			wantFilter: func(t *testing.T, f shared.StockFilter) {
				require.NotNil(t, f.Location)
				assert.Equal(t, "east", *f.Location)
				assert.Equal(t, 10, f.Limit)
				assert.Equal(t, 20, f.Offset)
			},
			wantPage:  3,
			wantLimit: 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := ledgermock.NewMockLedger(ctrl)
			m.EXPECT().ListLowStock(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, f shared.StockFilter) (*ledger.StockPage, error) {
					tc.wantFilter(t, f)
					return &ledger.StockPage{Records: []*inventory.Record{rec}, Total: 31}, nil
				})

			v, err := queries.NewStockQueries(m).ListLowStock(ctx, tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, v.Page)
			assert.Equal(t, tc.wantLimit, v.Limit)
			assert.Equal(t, 31, v.Total)
			require.Len(t, v.Items, 1)
			assert.Equal(t, 6, v.Items[0].AvailableStock)
		})
	}

	t.Run("out of stock against the real ledger", func(t *testing.T) {
		store := memstore.New()
		empty := builder.NewInventoryBuilder().WithStock(3, 3).BuildDomain()
		stocked := builder.NewInventoryBuilder().WithStock(50, 0).BuildDomain()
		require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Inventory().Create(ctx, empty); err != nil {
				return err
			}
			return tx.Inventory().Create(ctx, stocked)
		}))
		l := ledger.NewLedger(store, clock.NewMockClock(time.Now()), config.NewTestConfig().Saga, nil)

		v, err := queries.NewStockQueries(l).ListOutOfStock(ctx, queries.StockFilters{})
		require.NoError(t, err)
		require.Len(t, v.Items, 1)
		assert.Equal(t, empty.ID(), v.Items[0].ID)
		assert.Equal(t, 0, v.Items[0].AvailableStock)
	})
}
