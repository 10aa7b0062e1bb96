//go:build unit

package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"order-fulfillment/internal/domain/inventory"
	domoutbox "order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra/memstore"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/shared"
	"order-fulfillment/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memstore.Store
	clock  *clock.MockClock
	ledger ledger.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(t0)
	cfg := config.NewTestConfig().Saga
	cfg.ReservationTTL = 15 * time.Minute
	return &fixture{store: store, clock: clk, ledger: ledger.NewLedger(store, clk, cfg, nil)}
}

func (f *fixture) seed(t *testing.T, b *builder.InventoryBuilder) *inventory.Record {
	t.Helper()
	rec := b.BuildDomain()
	require.NoError(t, f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Inventory().Create(ctx, rec)
	}))
	return rec
}

func (f *fixture) record(t *testing.T, id uuid.UUID) *inventory.Record {
	t.Helper()
	var rec *inventory.Record
	require.NoError(t, f.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		rec, err = tx.Inventory().FindByID(ctx, id)
		return err
	}))
	return rec
}

func (f *fixture) reservation(t *testing.T, resID uuid.UUID, rec *inventory.Record) *inventory.Reservation {
	t.Helper()
	var res *inventory.Reservation
	require.NoError(t, f.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		res, err = tx.Reservations().Find(ctx, resID, rec.ProductID(), rec.Location())
		return err
	}))
	return res
}

func (f *fixture) events(t *testing.T, rec *inventory.Record) []string {
	t.Helper()
	var types []string
	require.NoError(t, f.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		entries, err := tx.Outbox().ListByAggregate(ctx, domoutbox.AggregateInventory, rec.ID().String())
		for _, e := range entries {
			types = append(types, e.EventType)
		}
		return err
	}))
	return types
}

func (f *fixture) movements(t *testing.T, rec *inventory.Record) []*inventory.StockMovement {
	t.Helper()
	var ms []*inventory.StockMovement
	require.NoError(t, f.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		ms, err = tx.Movements().ListByInventory(ctx, rec.ID(), 0)
		return err
	}))
	return ms
}

func reserveReq(rec *inventory.Record, resID uuid.UUID, qty int) ledger.ReserveRequest {
	return ledger.ReserveRequest{ReservationID: resID, ProductID: rec.ProductID(), Location: rec.Location(), Quantity: qty}
}

func TestLedger_ReserveThenRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
	resID := uuid.New()

	res, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 50))
	require.NoError(t, err)
	assert.Equal(t, inventory.ReservationActive, res.Status())
	assert.Equal(t, t0.Add(15*time.Minute), res.ExpiresAt())

	got := f.record(t, rec.ID())
	assert.Equal(t, 50, got.AvailableStock())
	assert.Equal(t, 50, got.ReservedStock())
	assert.Equal(t, 100, got.PhysicalStock())

	released, err := f.ledger.Release(ctx, ledger.ReleaseRequest{ReservationID: resID, ProductID: rec.ProductID(), Location: rec.Location()})
	require.NoError(t, err)
	assert.Equal(t, 50, released)

	got = f.record(t, rec.ID())
	assert.Equal(t, 100, got.AvailableStock())
	assert.Equal(t, 0, got.ReservedStock())
	assert.Equal(t, inventory.ReservationReleased, f.reservation(t, resID, rec).Status())
}

func TestLedger_ReserveInsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(5, 0))

	_, err := f.ledger.Reserve(ctx, reserveReq(rec, uuid.New(), 10))
	require.Error(t, err)
	assert.True(t, errs.Is(err, inventory.ErrInsufficientStock))
	assert.Equal(t, errs.ClassPermanent, errs.ClassOf(err))

	got := f.record(t, rec.ID())
	assert.Equal(t, 5, got.PhysicalStock())
	assert.Equal(t, 0, got.ReservedStock())
	assert.Empty(t, f.events(t, rec))
}

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		setup    func(f *fixture, rec *inventory.Record, resID uuid.UUID)
		quantity int
		unknown  bool
		errIs    error
		wantHeld int
	}{
		{
			name:     "success: first hold",
			quantity: 30,
			wantHeld: 30,
		},
		{
			name: "success: repeated request is not held twice",
			setup: func(f *fixture, rec *inventory.Record, resID uuid.UUID) {
				_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 30))
				require.NoError(t, err)
			},
			quantity: 30,
			wantHeld: 30,
		},
		{
			name: "error: repeated id with another quantity",
			setup: func(f *fixture, rec *inventory.Record, resID uuid.UUID) {
				_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 30))
				require.NoError(t, err)
			},
			quantity: 20,
			errIs:    inventory.ErrReservationMismatch,
			wantHeld: 30,
		},
		{
			name: "error: reservation id already released",
			setup: func(f *fixture, rec *inventory.Record, resID uuid.UUID) {
				_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 30))
				require.NoError(t, err)
				_, err = f.ledger.ReleaseAll(ctx, resID)
				require.NoError(t, err)
			},
			quantity: 30,
			errIs:    inventory.ErrReservationClosed,
		},
		{
			name:     "error: zero quantity",
			quantity: 0,
			errIs:    inventory.ErrInvalidQuantity,
		},
		{
			name:     "error: unknown product",
			quantity: 1,
			unknown:  true,
			errIs:    inventory.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
			resID := uuid.New()
			if tc.setup != nil {
				tc.setup(f, rec, resID)
			}

			req := reserveReq(rec, resID, tc.quantity)
			if tc.unknown {
				req.ProductID = uuid.New()
			}
			_, err := f.ledger.Reserve(ctx, req)
			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantHeld, f.record(t, rec.ID()).ReservedStock())
		})
	}
}

func TestLedger_ConcurrentReservationsNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.Reserve(ctx, reserveReq(rec, uuid.New(), 7)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got := f.record(t, rec.ID())
	assert.Equal(t, 14, succeeded)
	assert.Equal(t, 98, got.ReservedStock())
	assert.GreaterOrEqual(t, got.AvailableStock(), 0)
}

func TestLedger_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("success: partial release keeps the remainder", func(t *testing.T) {
		f := newFixture(t)
		rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
		resID := uuid.New()
		_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 10))
		require.NoError(t, err)

		n, err := f.ledger.Release(ctx, ledger.ReleaseRequest{ReservationID: resID, ProductID: rec.ProductID(), Location: rec.Location(), Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		res := f.reservation(t, resID, rec)
		assert.True(t, res.IsActive())
		assert.Equal(t, 6, res.Quantity())
		assert.Equal(t, 6, f.record(t, rec.ID()).ReservedStock())
	})

	t.Run("success: missing reservation is a no-op", func(t *testing.T) {
		f := newFixture(t)
		rec := f.seed(t, builder.NewInventoryBuilder())
		n, err := f.ledger.Release(ctx, ledger.ReleaseRequest{ReservationID: uuid.New(), ProductID: rec.ProductID(), Location: rec.Location()})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("success: release twice frees stock once", func(t *testing.T) {
		f := newFixture(t)
		a := f.seed(t, builder.NewInventoryBuilder().WithStock(20, 0))
		b := f.seed(t, builder.NewInventoryBuilder().WithStock(20, 0))
		resID := uuid.New()
		_, err := f.ledger.Reserve(ctx, reserveReq(a, resID, 5))
		require.NoError(t, err)
		_, err = f.ledger.Reserve(ctx, reserveReq(b, resID, 8))
		require.NoError(t, err)

		n, err := f.ledger.ReleaseAll(ctx, resID)
		require.NoError(t, err)
		assert.Equal(t, 13, n)
		n, err = f.ledger.ReleaseAll(ctx, resID)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 0, f.record(t, a.ID()).ReservedStock())
		assert.Equal(t, 0, f.record(t, b.ID()).ReservedStock())
	})
}

func TestLedger_Fulfill(t *testing.T) {
	ctx := context.Background()

	t.Run("success: fulfill ships stock and records a sale", func(t *testing.T) {
		f := newFixture(t)
		rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
		resID := uuid.New()
		_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 10))
		require.NoError(t, err)

		require.NoError(t, f.ledger.FulfillAll(ctx, resID))
		got := f.record(t, rec.ID())
		assert.Equal(t, 90, got.PhysicalStock())
		assert.Equal(t, 0, got.ReservedStock())
		assert.Equal(t, inventory.ReservationFulfilled, f.reservation(t, resID, rec).Status())

		ms := f.movements(t, rec)
		require.Len(t, ms, 1)
		assert.Equal(t, inventory.MovementSale, ms[0].MovementType)
		assert.Equal(t, -10, ms[0].QuantityDelta)
		assert.Equal(t, 90, ms[0].ResultingPhysicalStock)

		// Redelivery after a crash finds everything fulfilled already.
		require.NoError(t, f.ledger.FulfillAll(ctx, resID))
		assert.Equal(t, 90, f.record(t, rec.ID()).PhysicalStock())
	})

	t.Run("error: fulfilling more than held", func(t *testing.T) {
		f := newFixture(t)
		rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
		resID := uuid.New()
		_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 10))
		require.NoError(t, err)

		err = f.ledger.Fulfill(ctx, ledger.FulfillRequest{ReservationID: resID, ProductID: rec.ProductID(), Location: rec.Location(), Quantity: 11})
		assert.True(t, errs.Is(err, inventory.ErrExceedsReservedQuantity))
		assert.Equal(t, 10, f.record(t, rec.ID()).ReservedStock())
	})

	t.Run("error: released hold cannot be fulfilled", func(t *testing.T) {
		f := newFixture(t)
		rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
		resID := uuid.New()
		_, err := f.ledger.Reserve(ctx, reserveReq(rec, resID, 10))
		require.NoError(t, err)
		_, err = f.ledger.ReleaseAll(ctx, resID)
		require.NoError(t, err)

		err = f.ledger.FulfillAll(ctx, resID)
		assert.True(t, errs.Is(err, inventory.ErrReservationNotActive))
		assert.Equal(t, 100, f.record(t, rec.ID()).PhysicalStock())
	})

	t.Run("error: nothing reserved", func(t *testing.T) {
		f := newFixture(t)
		err := f.ledger.FulfillAll(ctx, uuid.New())
		assert.True(t, errs.Is(err, inventory.ErrReservationNotFound))
	})
}

func TestLedger_AdjustStock(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name         string
		remove       bool
		movementType string
		quantity     int
		errIs        error
		wantPhysical int
		wantEvents   []string
	}{
		{
			name:         "success: restock",
			movementType: "RESTOCK",
			quantity:     30,
			wantPhysical: 50,
			wantEvents:   []string{domoutbox.EventStockAdjusted},
		},
		{
			name:         "success: damage crossing the reorder point",
			remove:       true,
			movementType: "DAMAGE",
			quantity:     5,
			wantPhysical: 15,
			wantEvents:   []string{domoutbox.EventStockAdjusted, domoutbox.EventLowStockDetected},
		},
		{
			name:         "error: removing reserved stock",
			remove:       true,
			movementType: "ADJUSTMENT",
			quantity:     16,
			errIs:        inventory.ErrNegativeStock,
			wantPhysical: 20,
		},
		{
			name:         "error: unknown movement type",
			movementType: "THEFT",
			quantity:     1,
			errIs:        inventory.ErrUnknownMovementType,
			wantPhysical: 20,
		},
		{
			name:         "error: zero quantity",
			movementType: "RESTOCK",
			errIs:        inventory.ErrInvalidQuantity,
			wantPhysical: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			// available 15, reorder point 10
			rec := f.seed(t, builder.NewInventoryBuilder().WithStock(20, 5))
			adj := ledger.StockAdjustment{InventoryID: rec.ID(), MovementType: tc.movementType, Quantity: tc.quantity, Reason: "cycle count"}

			var (
				m   *inventory.StockMovement
				err error
			)
			if tc.remove {
				m, err = f.ledger.RemoveStock(ctx, adj)
			} else {
				m, err = f.ledger.AddStock(ctx, adj)
			}

			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
				assert.Empty(t, f.movements(t, rec))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantPhysical, m.ResultingPhysicalStock)
				assert.Len(t, f.movements(t, rec), 1)
			}
			assert.Equal(t, tc.wantPhysical, f.record(t, rec.ID()).PhysicalStock())
			assert.ElementsMatch(t, tc.wantEvents, f.events(t, rec))
		})
	}
}

func TestLedger_LowStockDetectedOnReserve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(20, 0))

	_, err := f.ledger.Reserve(ctx, reserveReq(rec, uuid.New(), 5))
	require.NoError(t, err)
	assert.Empty(t, f.events(t, rec))

	_, err = f.ledger.Reserve(ctx, reserveReq(rec, uuid.New(), 5))
	require.NoError(t, err)
	assert.Equal(t, []string{domoutbox.EventLowStockDetected}, f.events(t, rec))

	// Already low: no second event.
	_, err = f.ledger.Reserve(ctx, reserveReq(rec, uuid.New(), 1))
	require.NoError(t, err)
	assert.Len(t, f.events(t, rec), 1)
}

func TestLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(10, 4))

	a, err := f.ledger.CheckAvailability(ctx, rec.ProductID(), rec.Location(), 6)
	require.NoError(t, err)
	assert.True(t, a.Sufficient)
	assert.Equal(t, 6, a.Available)

	a, err = f.ledger.CheckAvailability(ctx, rec.ProductID(), rec.Location(), 7)
	require.NoError(t, err)
	assert.False(t, a.Sufficient)

	_, err = f.ledger.CheckAvailability(ctx, uuid.New(), "main", 1)
	assert.True(t, errs.Is(err, inventory.ErrRecordNotFound))
}

func TestLedger_ListStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
	f.seed(t, builder.NewInventoryBuilder().WithStock(8, 0))
	f.seed(t, builder.NewInventoryBuilder().WithStock(3, 3))
	f.seed(t, builder.NewInventoryBuilder().WithStock(50, 0).With(func(b *builder.InventoryBuilder) { b.Location = "east" }))

	low, err := f.ledger.ListLowStock(ctx, shared.StockFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, low.Total)

	out, err := f.ledger.ListOutOfStock(ctx, shared.StockFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, 0, out.Records[0].AvailableStock())

	east := "east"
	low, err = f.ledger.ListLowStock(ctx, shared.StockFilter{Location: &east, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, low.Total)
}

func TestLedger_ExpireReservations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec := f.seed(t, builder.NewInventoryBuilder().WithStock(100, 0))
	short := uuid.New()
	long := uuid.New()

	_, err := f.ledger.Reserve(ctx, ledger.ReserveRequest{ReservationID: short, ProductID: rec.ProductID(), Location: rec.Location(), Quantity: 10, TTL: time.Minute})
	require.NoError(t, err)
	_, err = f.ledger.Reserve(ctx, reserveReq(rec, long, 20))
	require.NoError(t, err)

	n, err := f.ledger.ExpireReservations(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.Add(time.Minute)
	n, err = f.ledger.ExpireReservations(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, inventory.ReservationExpired, f.reservation(t, short, rec).Status())
	assert.True(t, f.reservation(t, long, rec).IsActive())
	assert.Equal(t, 20, f.record(t, rec.ID()).ReservedStock())
	assert.Contains(t, f.events(t, rec), domoutbox.EventReservationExpired)

	// An expired hold cannot be fulfilled.
	err = f.ledger.FulfillAll(ctx, short)
	assert.True(t, errs.Is(err, inventory.ErrReservationNotActive))
}
