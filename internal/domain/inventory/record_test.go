//go:build unit

package inventory_test

import (
	"math/rand"
	"testing"
	"time"

	"order-fulfillment/internal/domain/inventory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newRecord(t *testing.T, physical int) *inventory.Record {
	t.Helper()
	rec, err := inventory.NewRecord(uuid.New(), "main", physical, 5, 10, now)
	require.NoError(t, err)
	return rec
}

func TestRecord_HoldAndUnhold(t *testing.T) {
	rec := newRecord(t, 100)

	require.NoError(t, rec.Hold(50, now))
	assert.Equal(t, 50, rec.AvailableStock())
	assert.Equal(t, 50, rec.ReservedStock())

	assert.Equal(t, 50, rec.Unhold(50, now))
	assert.Equal(t, 100, rec.AvailableStock())
	assert.Equal(t, 0, rec.ReservedStock())

	assert.Equal(t, 0, rec.Unhold(10, now), "reserved stock never goes below zero")
}

func TestRecord_HoldInsufficient(t *testing.T) {
	rec := newRecord(t, 5)

	err := rec.Hold(10, now)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 5, rec.PhysicalStock())
	assert.Equal(t, 0, rec.ReservedStock())
}

func TestRecord_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		run   func(*inventory.Record) error
		errIs error
	}{
		{name: "hold zero", run: func(r *inventory.Record) error { return r.Hold(0, now) }, errIs: inventory.ErrInvalidQuantity},
		{name: "hold negative", run: func(r *inventory.Record) error { return r.Hold(-3, now) }, errIs: inventory.ErrInvalidQuantity},
		{name: "add zero", run: func(r *inventory.Record) error { return r.AddStock(0, now) }, errIs: inventory.ErrInvalidQuantity},
		{name: "remove more than physical", run: func(r *inventory.Record) error { return r.RemoveStock(11, now) }, errIs: inventory.ErrNegativeStock},
		{name: "ship without hold", run: func(r *inventory.Record) error { return r.Ship(1, now) }, errIs: inventory.ErrNegativeStock},
		{name: "remove all", run: func(r *inventory.Record) error { return r.RemoveStock(10, now) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(newRecord(t, 10))
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecord_RemoveStockRespectsReservations(t *testing.T) {
	rec := newRecord(t, 10)
	require.NoError(t, rec.Hold(8, now))

	assert.ErrorIs(t, rec.RemoveStock(3, now), inventory.ErrNegativeStock)
	require.NoError(t, rec.RemoveStock(2, now))
	assert.Equal(t, 0, rec.AvailableStock())
	assert.True(t, rec.IsOutOfStock())
}

func TestRecord_StockFlags(t *testing.T) {
	rec := newRecord(t, 11)
	assert.False(t, rec.IsLowStock())
	require.NoError(t, rec.Hold(1, now))
	assert.True(t, rec.IsLowStock(), "available at reorder point is low stock")
	assert.False(t, rec.IsOutOfStock())
}

// Random operation sequences must never break reserved <= physical or available >= 0.
func TestRecord_InvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rec := newRecord(t, 50)

	for i := 0; i < 5000; i++ {
		qty := rng.Intn(20) - 2
		switch rng.Intn(5) {
		case 0:
			_ = rec.Hold(qty, now)
		case 1:
			rec.Unhold(qty, now)
		case 2:
			_ = rec.Ship(qty, now)
		case 3:
			_ = rec.AddStock(qty, now)
		case 4:
			_ = rec.RemoveStock(qty, now)
		}

		require.GreaterOrEqual(t, rec.ReservedStock(), 0, "step %d", i)
		require.LessOrEqual(t, rec.ReservedStock(), rec.PhysicalStock(), "step %d", i)
		require.GreaterOrEqual(t, rec.AvailableStock(), 0, "step %d", i)
	}
}

func TestReservation_Lifecycle(t *testing.T) {
	newRes := func(t *testing.T, qty int) *inventory.Reservation {
		t.Helper()
		r, err := inventory.NewReservation(uuid.New(), uuid.New(), "main", qty, now.Add(time.Minute), now)
		require.NoError(t, err)
		return r
	}

	t.Run("partial release keeps remainder active", func(t *testing.T) {
		r := newRes(t, 10)
		assert.Equal(t, 4, r.Release(4, now))
		assert.True(t, r.IsActive())
		assert.Equal(t, 6, r.Quantity())

		assert.Equal(t, 6, r.Release(100, now))
		assert.Equal(t, inventory.ReservationReleased, r.Status())
		assert.Equal(t, 0, r.Release(1, now), "released reservation is a no-op")
	})

	t.Run("fulfill", func(t *testing.T) {
		r := newRes(t, 5)
		assert.ErrorIs(t, r.Fulfill(6, now), inventory.ErrExceedsReservedQuantity)
		require.NoError(t, r.Fulfill(2, now))
		assert.True(t, r.IsActive())
		require.NoError(t, r.Fulfill(3, now))
		assert.Equal(t, inventory.ReservationFulfilled, r.Status())
		assert.ErrorIs(t, r.Fulfill(1, now), inventory.ErrReservationNotActive)
	})

	t.Run("expiry", func(t *testing.T) {
		r := newRes(t, 3)
		assert.False(t, r.IsExpired(now))
		assert.True(t, r.IsExpired(now.Add(time.Minute)))
		assert.Equal(t, 3, r.Expire(now.Add(time.Minute)))
		assert.Equal(t, inventory.ReservationExpired, r.Status())
		assert.False(t, r.IsExpired(now.Add(time.Hour)))
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := inventory.NewReservation(uuid.New(), uuid.New(), "main", 0, now, now)
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})
}

func TestParseMovementType(t *testing.T) {
	mt, err := inventory.ParseMovementType("DAMAGE")
	require.NoError(t, err)
	assert.Equal(t, inventory.MovementDamage, mt)

	_, err = inventory.ParseMovementType("THEFT")
	assert.ErrorIs(t, err, inventory.ErrUnknownMovementType)
}
