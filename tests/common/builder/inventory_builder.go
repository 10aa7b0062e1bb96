//go:build unit || e2e

package builder

import (
	"time"

	dominventory "order-fulfillment/internal/domain/inventory"

	"github.com/google/uuid"
)

type InventoryBuilder struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Location     string
	Physical     int
	Reserved     int
	Minimum      int
	ReorderPoint int
	UpdatedAt    time.Time
}

func NewInventoryBuilder() *InventoryBuilder {
	return &InventoryBuilder{
		ID:           uuid.New(),
		ProductID:    uuid.New(),
		Location:     "main",
		Physical:     100,
		Minimum:      5,
		ReorderPoint: 10,
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (b *InventoryBuilder) With(mutate func(*InventoryBuilder)) *InventoryBuilder {
	mutate(b)
	return b
}

func (b *InventoryBuilder) WithStock(physical, reserved int) *InventoryBuilder {
	b.Physical = physical
	b.Reserved = reserved
	return b
}

func (b *InventoryBuilder) BuildDomain() *dominventory.Record {
	return dominventory.ReconstructRecord(dominventory.RecordParams{
		ID:            b.ID,
		ProductID:     b.ProductID,
		Location:      b.Location,
		PhysicalStock: b.Physical,
		ReservedStock: b.Reserved,
		MinimumStock:  b.Minimum,
		ReorderPoint:  b.ReorderPoint,
		CreatedAt:     b.UpdatedAt,
		UpdatedAt:     b.UpdatedAt,
	})
}

// BuildReservation returns an ACTIVE hold against the built record.
func (b *InventoryBuilder) BuildReservation(reservationID uuid.UUID, qty int, expiresAt time.Time) *dominventory.Reservation {
	return dominventory.ReconstructReservation(dominventory.ReservationParams{
		ID:            uuid.New(),
		ReservationID: reservationID,
		ProductID:     b.ProductID,
		Location:      b.Location,
		Quantity:      qty,
		Status:        dominventory.ReservationActive,
		ExpiresAt:     expiresAt,
		CreatedAt:     b.UpdatedAt,
		UpdatedAt:     b.UpdatedAt,
	})
}
