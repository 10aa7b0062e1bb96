package shared

import (
	"context"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/domain/outbox"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow.go -package=sharedmock
type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Orders() OrderRepository
	Outbox() OutboxRepository
	Inventory() InventoryRepository
	Reservations() ReservationRepository
	Movements() StockMovementRepository
	ProcessedJobs() ProcessedJobRepository
}

type OrderRepository interface {
	// Create fails with a duplicate-key repository error when the idempotency key exists.
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)
	// Update persists o only if the stored status still equals expected.
	Update(ctx context.Context, o *order.Order, expected order.Status) error
}

type OutboxRepository interface {
	Append(ctx context.Context, e *outbox.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*outbox.Entry, error)
	// ClaimBatch flips up to limit claimable entries to PROCESSING, oldest first.
	// Entries locked by another transaction are skipped.
	ClaimBatch(ctx context.Context, limit int, now, staleBefore time.Time) ([]*outbox.Entry, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, availableAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
	ListByAggregate(ctx context.Context, aggregateType outbox.AggregateType, aggregateID string) ([]*outbox.Entry, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, rec *inventory.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*inventory.Record, error)
	FindByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error)
	// Lock* take a row lock on the ledger row alone until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*inventory.Record, error)
	LockByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error)
	UpdateStock(ctx context.Context, rec *inventory.Record) error
	ListLowStock(ctx context.Context, f StockFilter) ([]*inventory.Record, int, error)
	ListOutOfStock(ctx context.Context, f StockFilter) ([]*inventory.Record, int, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *inventory.Reservation) error
	Find(ctx context.Context, reservationID, productID uuid.UUID, location string) (*inventory.Reservation, error)
	ListByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*inventory.Reservation, error)
	Update(ctx context.Context, r *inventory.Reservation) error
	// ListExpired returns ACTIVE holds past their TTL, skipping rows locked elsewhere.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error)
}

type StockMovementRepository interface {
	Append(ctx context.Context, m *inventory.StockMovement) error
	ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit int) ([]*inventory.StockMovement, error)
}

type ProcessedJobRepository interface {
	// MarkProcessed records jobID for handler and reports whether it was new.
	MarkProcessed(ctx context.Context, jobID, handler string, at time.Time) (bool, error)
}
