package inventory

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is append-only.
type StockMovement struct {
	ID                     uuid.UUID
	InventoryID            uuid.UUID
	MovementType           MovementType
	QuantityDelta          int
	Reason                 string
	ResultingPhysicalStock int
	CreatedAt              time.Time
}

func NewStockMovement(rec *Record, mt MovementType, delta int, reason string, now time.Time) *StockMovement {
	return &StockMovement{
		ID:                     uuid.New(),
		InventoryID:            rec.ID(),
		MovementType:           mt,
		QuantityDelta:          delta,
		Reason:                 reason,
		ResultingPhysicalStock: rec.PhysicalStock(),
		CreatedAt:              now,
	}
}
