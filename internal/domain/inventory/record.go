package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is the stock ledger row for one product at one location.
// Available stock is always derived: physical - reserved.
type Record struct {
	id            uuid.UUID
	productID     uuid.UUID
	location      string
	physicalStock int
	reservedStock int
	minimumStock  int
	reorderPoint  int
	createdAt     time.Time
	updatedAt     time.Time
}

func NewRecord(productID uuid.UUID, location string, physical, minimum, reorderPoint int, now time.Time) (*Record, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if physical < 0 || minimum < 0 || reorderPoint < 0 {
		return nil, ErrInvalidStockLevel
	}
	return &Record{
		id:            uuid.New(),
		productID:     productID,
		location:      location,
		physicalStock: physical,
		minimumStock:  minimum,
		reorderPoint:  reorderPoint,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type RecordParams struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Location      string
	PhysicalStock int
	ReservedStock int
	MinimumStock  int
	ReorderPoint  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructRecord(p RecordParams) *Record {
	return &Record{
		id:            p.ID,
		productID:     p.ProductID,
		location:      p.Location,
		physicalStock: p.PhysicalStock,
		reservedStock: p.ReservedStock,
		minimumStock:  p.MinimumStock,
		reorderPoint:  p.ReorderPoint,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

func (r *Record) ID() uuid.UUID        { return r.id }
func (r *Record) ProductID() uuid.UUID { return r.productID }
func (r *Record) Location() string     { return r.location }
func (r *Record) PhysicalStock() int   { return r.physicalStock }
func (r *Record) ReservedStock() int   { return r.reservedStock }
func (r *Record) AvailableStock() int  { return r.physicalStock - r.reservedStock }
func (r *Record) MinimumStock() int    { return r.minimumStock }
func (r *Record) ReorderPoint() int    { return r.reorderPoint }
func (r *Record) CreatedAt() time.Time { return r.createdAt }
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) Params() RecordParams {
	return RecordParams{
		ID:            r.id,
		ProductID:     r.productID,
		Location:      r.location,
		PhysicalStock: r.physicalStock,
		ReservedStock: r.reservedStock,
		MinimumStock:  r.minimumStock,
		ReorderPoint:  r.reorderPoint,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
}

func (r *Record) IsLowStock() bool   { return r.AvailableStock() <= r.reorderPoint }
func (r *Record) IsOutOfStock() bool { return r.AvailableStock() <= 0 }

func (r *Record) Hold(qty int, now time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if r.AvailableStock() < qty {
		return ErrInsufficientStock
	}
	r.reservedStock += qty
	r.updatedAt = now
	return nil
}

// Unhold returns the quantity actually released; reserved stock never goes below zero.
func (r *Record) Unhold(qty int, now time.Time) int {
	released := min(qty, r.reservedStock)
	if released <= 0 {
		return 0
	}
	r.reservedStock -= released
	r.updatedAt = now
	return released
}

// Ship converts a hold into a sale: both reserved and physical stock drop.
func (r *Record) Ship(qty int, now time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > r.reservedStock || qty > r.physicalStock {
		return ErrNegativeStock
	}
	r.reservedStock -= qty
	r.physicalStock -= qty
	r.updatedAt = now
	return nil
}

func (r *Record) AddStock(qty int, now time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	r.physicalStock += qty
	r.updatedAt = now
	return nil
}

// RemoveStock refuses to take physical stock below what is already reserved.
func (r *Record) RemoveStock(qty int, now time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if r.physicalStock-qty < r.reservedStock {
		return ErrNegativeStock
	}
	r.physicalStock -= qty
	r.updatedAt = now
	return nil
}
