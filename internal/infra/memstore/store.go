// Package memstore keeps the whole persistence model in process memory. It backs
// the memory store driver and the usecase tests; transactions are serialized by
// a single lock and applied copy-on-commit.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type stockKey struct {
	productID uuid.UUID
	location  string
}

type holdKey struct {
	reservationID uuid.UUID
	productID     uuid.UUID
	location      string
}

type jobKey struct {
	jobID   string
	handler string
}

type state struct {
	orders       map[uuid.UUID]order.ReconstructParams
	orderByKey   map[string]uuid.UUID
	outbox       map[uuid.UUID]outbox.Entry
	records      map[uuid.UUID]inventory.RecordParams
	recordByKey  map[stockKey]uuid.UUID
	reservations map[holdKey]inventory.ReservationParams
	movements    []inventory.StockMovement
	processed    map[jobKey]time.Time
}

func newState() *state {
	return &state{
		orders:       make(map[uuid.UUID]order.ReconstructParams),
		orderByKey:   make(map[string]uuid.UUID),
		outbox:       make(map[uuid.UUID]outbox.Entry),
		records:      make(map[uuid.UUID]inventory.RecordParams),
		recordByKey:  make(map[stockKey]uuid.UUID),
		reservations: make(map[holdKey]inventory.ReservationParams),
		processed:    make(map[jobKey]time.Time),
	}
}

func (s *state) clone() *state {
	return &state{
		orders:       maps.Clone(s.orders),
		orderByKey:   maps.Clone(s.orderByKey),
		outbox:       maps.Clone(s.outbox),
		records:      maps.Clone(s.records),
		recordByKey:  maps.Clone(s.recordByKey),
		reservations: maps.Clone(s.reservations),
		movements:    append([]inventory.StockMovement(nil), s.movements...),
		processed:    maps.Clone(s.processed),
	}
}

type Store struct {
	mu   sync.RWMutex
	data *state
}

func New() *Store {
	return &Store{data: newState()}
}

// Within runs fn against a private copy and publishes it only when fn succeeds.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, &memTx{st: s.data.clone()})
}

type memTx struct {
	st *state
}

func (t *memTx) Orders() shared.OrderRepository               { return orderRepo{t.st} }
func (t *memTx) Outbox() shared.OutboxRepository              { return outboxRepo{t.st} }
func (t *memTx) Inventory() shared.InventoryRepository        { return inventoryRepo{t.st} }
func (t *memTx) Reservations() shared.ReservationRepository   { return reservationRepo{t.st} }
func (t *memTx) Movements() shared.StockMovementRepository    { return movementRepo{t.st} }
func (t *memTx) ProcessedJobs() shared.ProcessedJobRepository { return processedJobRepo{t.st} }
