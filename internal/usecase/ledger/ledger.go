package ledger

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"order-fulfillment/internal/domain/inventory"
	domoutbox "order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type Availability struct {
	ProductID  uuid.UUID
	Location   string
	Requested  int
	Available  int
	Sufficient bool
}

type ReserveRequest struct {
	ReservationID uuid.UUID
	ProductID     uuid.UUID
	Location      string
	Quantity      int
	// TTL overrides the configured reservation lifetime when positive.
	TTL time.Duration
}

// ReleaseRequest frees Quantity of a hold; zero or less frees the whole remainder.
type ReleaseRequest struct {
	ReservationID uuid.UUID
	ProductID     uuid.UUID
	Location      string
	Quantity      int
}

type FulfillRequest struct {
	ReservationID uuid.UUID
	ProductID     uuid.UUID
	Location      string
	Quantity      int
}

type StockAdjustment struct {
	InventoryID  uuid.UUID
	MovementType string
	Quantity     int
	Reason       string
}

type StockPage struct {
	Records []*inventory.Record
	Total   int
}

//go:generate mockgen -source=ledger.go -destination=../../../tests/mock/ledger/ledger.go -package=ledgermock
type Ledger interface {
	CheckAvailability(ctx context.Context, productID uuid.UUID, location string, quantity int) (*Availability, error)
	Reserve(ctx context.Context, req ReserveRequest) (*inventory.Reservation, error)
	Release(ctx context.Context, req ReleaseRequest) (int, error)
	// ReleaseAll frees every ACTIVE hold under reservationID and returns the total quantity freed.
	ReleaseAll(ctx context.Context, reservationID uuid.UUID) (int, error)
	Fulfill(ctx context.Context, req FulfillRequest) error
	// FulfillAll ships every hold under reservationID. Holds already FULFILLED count as done.
	FulfillAll(ctx context.Context, reservationID uuid.UUID) error
	AddStock(ctx context.Context, adj StockAdjustment) (*inventory.StockMovement, error)
	RemoveStock(ctx context.Context, adj StockAdjustment) (*inventory.StockMovement, error)
	ListLowStock(ctx context.Context, f shared.StockFilter) (*StockPage, error)
	ListOutOfStock(ctx context.Context, f shared.StockFilter) (*StockPage, error)
	ExpireReservations(ctx context.Context, limit int) (int, error)
}

type ledgerImpl struct {
	uow      shared.UnitOfWork
	appender *outbox.Appender
	clock    clock.Clock
	ttl      time.Duration
	logger   *slog.Logger
}

func NewLedger(uow shared.UnitOfWork, clk clock.Clock, cfg config.SagaConfig, logger *slog.Logger) Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerImpl{
		uow:      uow,
		appender: outbox.NewAppender(clk),
		clock:    clk,
		ttl:      cfg.ReservationTTL,
		logger:   logger,
	}
}

func (l *ledgerImpl) CheckAvailability(ctx context.Context, productID uuid.UUID, location string, quantity int) (*Availability, error) {
	if quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	var out *Availability
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Inventory().FindByProductLocation(ctx, productID, location)
		if err != nil {
			return recordErr(err)
		}
		out = &Availability{
			ProductID:  productID,
			Location:   location,
			Requested:  quantity,
			Available:  rec.AvailableStock(),
			Sufficient: rec.AvailableStock() >= quantity,
		}
		return nil
	})
	return out, err
}

// Reserve is idempotent per (reservation id, product, location): repeating an
// ACTIVE hold with the same quantity returns it without holding stock again.
func (l *ledgerImpl) Reserve(ctx context.Context, req ReserveRequest) (*inventory.Reservation, error) {
	if req.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	ttl := l.ttl
	if req.TTL > 0 {
		ttl = req.TTL
	}

	var out *inventory.Reservation
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()
		rec, err := tx.Inventory().LockByProductLocation(ctx, req.ProductID, req.Location)
		if err != nil {
			return recordErr(err)
		}

		existing, err := tx.Reservations().Find(ctx, req.ReservationID, req.ProductID, req.Location)
		switch {
		case err == nil:
			return replayReservation(existing, req.Quantity, &out)
		case !infra.IsKind(err, infra.KindNotFound):
			return repoErr(err, "failed to load reservation")
		}

		wasLow := rec.IsLowStock()
		if err := rec.Hold(req.Quantity, now); err != nil {
			return errs.Wrapf(err, "product %s at %s: requested %d, available %d",
				req.ProductID, req.Location, req.Quantity, rec.AvailableStock())
		}
		res, err := inventory.NewReservation(req.ReservationID, req.ProductID, req.Location, req.Quantity, now.Add(ttl), now)
		if err != nil {
			return err
		}
		if err := tx.Inventory().UpdateStock(ctx, rec); err != nil {
			return repoErr(err, "failed to update stock")
		}
		if err := tx.Reservations().Create(ctx, res); err != nil {
			return repoErr(err, "failed to create reservation")
		}
		if !wasLow && rec.IsLowStock() {
			if err := l.emit(ctx, tx, rec, domoutbox.EventLowStockDetected, "", 0, nil); err != nil {
				return err
			}
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Debug("stock reserved",
		"reservation_id", req.ReservationID.String(), "product_id", req.ProductID.String(), "quantity", req.Quantity)
	return out, nil
}

func replayReservation(existing *inventory.Reservation, qty int, out **inventory.Reservation) error {
	switch {
	case !existing.IsActive():
		return errs.Wrapf(inventory.ErrReservationClosed, "status %s", existing.Status())
	case existing.Quantity() != qty:
		return errs.Wrapf(inventory.ErrReservationMismatch, "held %d, requested %d", existing.Quantity(), qty)
	}
	*out = existing
	return nil
}

func (l *ledgerImpl) Release(ctx context.Context, req ReleaseRequest) (int, error) {
	released := 0
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Inventory().LockByProductLocation(ctx, req.ProductID, req.Location)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return repoErr(err, "failed to lock inventory record")
		}
		res, err := tx.Reservations().Find(ctx, req.ReservationID, req.ProductID, req.Location)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return repoErr(err, "failed to load reservation")
		}
		released, err = l.release(ctx, tx, rec, res, req.Quantity)
		return err
	})
	return released, err
}

func (l *ledgerImpl) ReleaseAll(ctx context.Context, reservationID uuid.UUID) (int, error) {
	total := 0
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		total = 0
		holds, err := l.lockHolds(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		for _, h := range holds {
			n, err := l.release(ctx, tx, h.record, h.reservation, 0)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	return total, err
}

// release must run with rec locked. A closed reservation releases nothing.
func (l *ledgerImpl) release(ctx context.Context, tx shared.Tx, rec *inventory.Record, res *inventory.Reservation, qty int) (int, error) {
	if !res.IsActive() {
		return 0, nil
	}
	now := l.clock.Now()
	if qty <= 0 {
		qty = res.Quantity()
	}
	freed := res.Release(qty, now)
	rec.Unhold(freed, now)
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return 0, repoErr(err, "failed to update reservation")
	}
	if err := tx.Inventory().UpdateStock(ctx, rec); err != nil {
		return 0, repoErr(err, "failed to update stock")
	}
	return freed, nil
}

func (l *ledgerImpl) Fulfill(ctx context.Context, req FulfillRequest) error {
	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Inventory().LockByProductLocation(ctx, req.ProductID, req.Location)
		if err != nil {
			return recordErr(err)
		}
		res, err := tx.Reservations().Find(ctx, req.ReservationID, req.ProductID, req.Location)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return inventory.ErrReservationNotFound
			}
			return repoErr(err, "failed to load reservation")
		}
		return l.fulfill(ctx, tx, rec, res, req.Quantity)
	})
}

func (l *ledgerImpl) FulfillAll(ctx context.Context, reservationID uuid.UUID) error {
	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		holds, err := l.lockHolds(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if len(holds) == 0 {
			return errs.Wrapf(inventory.ErrReservationNotFound, "reservation %s", reservationID)
		}
		for _, h := range holds {
			res := h.reservation
			if res.Status() == inventory.ReservationFulfilled {
				continue
			}
			if !res.IsActive() {
				return errs.Wrapf(inventory.ErrReservationNotActive, "product %s is %s", res.ProductID(), res.Status())
			}
			if err := l.fulfill(ctx, tx, h.record, res, res.Quantity()); err != nil {
				return err
			}
		}
		return nil
	})
}

// fulfill must run with rec locked. Shipped stock is recorded as a SALE movement.
func (l *ledgerImpl) fulfill(ctx context.Context, tx shared.Tx, rec *inventory.Record, res *inventory.Reservation, qty int) error {
	now := l.clock.Now()
	if err := res.Fulfill(qty, now); err != nil {
		return err
	}
	if err := rec.Ship(qty, now); err != nil {
		return err
	}
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return repoErr(err, "failed to update reservation")
	}
	if err := tx.Inventory().UpdateStock(ctx, rec); err != nil {
		return repoErr(err, "failed to update stock")
	}
	reason := "reservation " + res.ReservationID().String() + " fulfilled"
	if err := tx.Movements().Append(ctx, inventory.NewStockMovement(rec, inventory.MovementSale, -qty, reason, now)); err != nil {
		return repoErr(err, "failed to append stock movement")
	}
	return nil
}

type hold struct {
	record      *inventory.Record
	reservation *inventory.Reservation
}

// lockHolds locks the record behind every hold of reservationID in (product,
// location) order so two multi-item operations cannot deadlock, then re-reads
// each hold under its lock.
func (l *ledgerImpl) lockHolds(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) ([]hold, error) {
	all, err := tx.Reservations().ListByReservationID(ctx, reservationID)
	if err != nil {
		return nil, repoErr(err, "failed to list reservations")
	}
	slices.SortFunc(all, func(a, b *inventory.Reservation) int {
		if c := strings.Compare(a.ProductID().String(), b.ProductID().String()); c != 0 {
			return c
		}
		return strings.Compare(a.Location(), b.Location())
	})

	holds := make([]hold, 0, len(all))
	for _, res := range all {
		rec, err := tx.Inventory().LockByProductLocation(ctx, res.ProductID(), res.Location())
		if err != nil {
			return nil, recordErr(err)
		}
		fresh, err := tx.Reservations().Find(ctx, reservationID, res.ProductID(), res.Location())
		if err != nil {
			return nil, repoErr(err, "failed to reload reservation")
		}
		holds = append(holds, hold{record: rec, reservation: fresh})
	}
	return holds, nil
}

func (l *ledgerImpl) AddStock(ctx context.Context, adj StockAdjustment) (*inventory.StockMovement, error) {
	return l.adjust(ctx, adj, 1)
}

func (l *ledgerImpl) RemoveStock(ctx context.Context, adj StockAdjustment) (*inventory.StockMovement, error) {
	return l.adjust(ctx, adj, -1)
}

func (l *ledgerImpl) adjust(ctx context.Context, adj StockAdjustment, sign int) (*inventory.StockMovement, error) {
	mt, err := inventory.ParseMovementType(adj.MovementType)
	if err != nil {
		return nil, err
	}
	if adj.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	var out *inventory.StockMovement
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()
		rec, err := tx.Inventory().LockByID(ctx, adj.InventoryID)
		if err != nil {
			return recordErr(err)
		}
		wasLow := rec.IsLowStock()
		if sign > 0 {
			err = rec.AddStock(adj.Quantity, now)
		} else {
			err = rec.RemoveStock(adj.Quantity, now)
		}
		if err != nil {
			return errs.Wrapf(err, "%s of %d on inventory %s", mt, adj.Quantity, adj.InventoryID)
		}
		if err := tx.Inventory().UpdateStock(ctx, rec); err != nil {
			return repoErr(err, "failed to update stock")
		}
		m := inventory.NewStockMovement(rec, mt, sign*adj.Quantity, adj.Reason, now)
		if err := tx.Movements().Append(ctx, m); err != nil {
			return repoErr(err, "failed to append stock movement")
		}
		if err := l.emit(ctx, tx, rec, domoutbox.EventStockAdjusted, mt, m.QuantityDelta, nil); err != nil {
			return err
		}
		if !wasLow && rec.IsLowStock() {
			if err := l.emit(ctx, tx, rec, domoutbox.EventLowStockDetected, "", 0, nil); err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("stock adjusted",
		"inventory_id", adj.InventoryID.String(), "movement_type", string(mt), "delta", out.QuantityDelta,
		"resulting_physical_stock", out.ResultingPhysicalStock)
	return out, nil
}

func (l *ledgerImpl) ListLowStock(ctx context.Context, f shared.StockFilter) (*StockPage, error) {
	return l.list(ctx, func(ctx context.Context, tx shared.Tx) ([]*inventory.Record, int, error) {
		return tx.Inventory().ListLowStock(ctx, f)
	})
}

func (l *ledgerImpl) ListOutOfStock(ctx context.Context, f shared.StockFilter) (*StockPage, error) {
	return l.list(ctx, func(ctx context.Context, tx shared.Tx) ([]*inventory.Record, int, error) {
		return tx.Inventory().ListOutOfStock(ctx, f)
	})
}

func (l *ledgerImpl) list(ctx context.Context, fn func(context.Context, shared.Tx) ([]*inventory.Record, int, error)) (*StockPage, error) {
	var page StockPage
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		recs, total, err := fn(ctx, tx)
		if err != nil {
			return repoErr(err, "failed to list inventory")
		}
		page = StockPage{Records: recs, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ExpireReservations closes up to limit ACTIVE holds past their expiry, one
// transaction each, and returns how many it expired.
func (l *ledgerImpl) ExpireReservations(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	var candidates []*inventory.Reservation
	err := l.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		candidates, err = tx.Reservations().ListExpired(ctx, l.clock.Now(), limit)
		return err
	})
	if err != nil {
		return 0, repoErr(err, "failed to list expired reservations")
	}

	expired := 0
	for _, c := range candidates {
		ok, err := l.expireOne(ctx, c)
		if err != nil {
			l.logger.Error("failed to expire reservation",
				"reservation_id", c.ReservationID().String(), "product_id", c.ProductID().String(), "error", err.Error())
			continue
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (l *ledgerImpl) expireOne(ctx context.Context, c *inventory.Reservation) (bool, error) {
	expired := false
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := l.clock.Now()
		rec, err := tx.Inventory().LockByProductLocation(ctx, c.ProductID(), c.Location())
		if err != nil {
			return recordErr(err)
		}
		res, err := tx.Reservations().Find(ctx, c.ReservationID(), c.ProductID(), c.Location())
		if err != nil {
			return repoErr(err, "failed to reload reservation")
		}
		if !res.IsExpired(now) {
			return nil
		}
		rec.Unhold(res.Expire(now), now)
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return repoErr(err, "failed to update reservation")
		}
		if err := tx.Inventory().UpdateStock(ctx, rec); err != nil {
			return repoErr(err, "failed to update stock")
		}
		resID := res.ReservationID()
		if err := l.emit(ctx, tx, rec, domoutbox.EventReservationExpired, "", 0, &resID); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}

func (l *ledgerImpl) emit(ctx context.Context, tx shared.Tx, rec *inventory.Record, eventType string, mt inventory.MovementType, delta int, resID *uuid.UUID) error {
	_, err := l.appender.Append(ctx, tx, domoutbox.AggregateInventory, rec.ID().String(), eventType, outbox.InventoryEvent{
		InventoryID:    rec.ID(),
		ProductID:      rec.ProductID(),
		Location:       rec.Location(),
		PhysicalStock:  rec.PhysicalStock(),
		ReservedStock:  rec.ReservedStock(),
		AvailableStock: rec.AvailableStock(),
		ReorderPoint:   rec.ReorderPoint(),
		MovementType:   string(mt),
		QuantityDelta:  delta,
		ReservationID:  resID,
	})
	if err != nil {
		return errs.Wrap(err, "failed to append inventory event")
	}
	return nil
}

func recordErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Wrap(inventory.ErrRecordNotFound, err.Error())
	}
	return repoErr(err, "failed to load inventory record")
}

// repoErr keeps the repository kind and marks storage failures retriable.
func repoErr(err error, msg string) error {
	if infra.IsKind(err, infra.KindDBFailure) {
		return errs.WithClass(errs.Wrap(err, msg), errs.ClassRetriable)
	}
	return errs.Wrap(err, msg)
}
