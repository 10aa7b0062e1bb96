package memstore

import (
	"context"
	"sort"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type inventoryRepo struct{ st *state }

func (r inventoryRepo) Create(_ context.Context, rec *inventory.Record) error {
	key := stockKey{rec.ProductID(), rec.Location()}
	if _, ok := r.st.recordByKey[key]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "inventory record already exists for product and location")
	}
	r.st.records[rec.ID()] = rec.Params()
	r.st.recordByKey[key] = rec.ID()
	return nil
}

func (r inventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Record, error) {
	p, ok := r.st.records[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	return inventory.ReconstructRecord(p), nil
}

func (r inventoryRepo) FindByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error) {
	id, ok := r.st.recordByKey[stockKey{productID, location}]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	return r.FindByID(ctx, id)
}

// The store lock already serializes transactions, so locking reads are plain reads.
func (r inventoryRepo) LockByID(ctx context.Context, id uuid.UUID) (*inventory.Record, error) {
	return r.FindByID(ctx, id)
}

func (r inventoryRepo) LockByProductLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.Record, error) {
	return r.FindByProductLocation(ctx, productID, location)
}

func (r inventoryRepo) UpdateStock(_ context.Context, rec *inventory.Record) error {
	if _, ok := r.st.records[rec.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
	}
	if rec.ReservedStock() < 0 || rec.ReservedStock() > rec.PhysicalStock() {
		return infra.NewRepoErr(infra.KindConflict, "inventory reserved stock out of bounds")
	}
	r.st.records[rec.ID()] = rec.Params()
	return nil
}

func (r inventoryRepo) ListLowStock(_ context.Context, f shared.StockFilter) ([]*inventory.Record, int, error) {
	recs := r.filter(f, func(rec *inventory.Record) bool { return rec.IsLowStock() })
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AvailableStock() == recs[j].AvailableStock() {
			return recs[i].ID().String() < recs[j].ID().String()
		}
		return recs[i].AvailableStock() < recs[j].AvailableStock()
	})
	return page(recs, f), len(recs), nil
}

func (r inventoryRepo) ListOutOfStock(_ context.Context, f shared.StockFilter) ([]*inventory.Record, int, error) {
	recs := r.filter(f, func(rec *inventory.Record) bool { return rec.IsOutOfStock() })
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].UpdatedAt().Equal(recs[j].UpdatedAt()) {
			return recs[i].ID().String() < recs[j].ID().String()
		}
		return recs[i].UpdatedAt().After(recs[j].UpdatedAt())
	})
	return page(recs, f), len(recs), nil
}

func (r inventoryRepo) filter(f shared.StockFilter, keep func(*inventory.Record) bool) []*inventory.Record {
	var out []*inventory.Record
	for _, p := range r.st.records {
		rec := inventory.ReconstructRecord(p)
		if f.Location != nil && rec.Location() != *f.Location {
			continue
		}
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func page(recs []*inventory.Record, f shared.StockFilter) []*inventory.Record {
	if f.Offset >= len(recs) {
		return []*inventory.Record{}
	}
	recs = recs[f.Offset:]
	if f.Limit > 0 && len(recs) > f.Limit {
		recs = recs[:f.Limit]
	}
	return recs
}

type reservationRepo struct{ st *state }

func holdKeyOf(r *inventory.Reservation) holdKey {
	return holdKey{r.ReservationID(), r.ProductID(), r.Location()}
}

func (r reservationRepo) Create(_ context.Context, res *inventory.Reservation) error {
	if _, ok := r.st.recordByKey[stockKey{res.ProductID(), res.Location()}]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "reservation references unknown inventory record")
	}
	key := holdKeyOf(res)
	if _, ok := r.st.reservations[key]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	r.st.reservations[key] = res.Params()
	return nil
}

func (r reservationRepo) Find(_ context.Context, reservationID, productID uuid.UUID, location string) (*inventory.Reservation, error) {
	p, ok := r.st.reservations[holdKey{reservationID, productID, location}]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return inventory.ReconstructReservation(p), nil
}

func (r reservationRepo) ListByReservationID(_ context.Context, reservationID uuid.UUID) ([]*inventory.Reservation, error) {
	var out []*inventory.Reservation
	for k, p := range r.st.reservations {
		if k.reservationID == reservationID {
			out = append(out, inventory.ReconstructReservation(p))
		}
	}
	sortReservations(out, func(a *inventory.Reservation) time.Time { return a.CreatedAt() })
	return out, nil
}

func (r reservationRepo) Update(_ context.Context, res *inventory.Reservation) error {
	key := holdKeyOf(res)
	if _, ok := r.st.reservations[key]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	r.st.reservations[key] = res.Params()
	return nil
}

func (r reservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	var out []*inventory.Reservation
	for _, p := range r.st.reservations {
		res := inventory.ReconstructReservation(p)
		if res.IsExpired(now) {
			out = append(out, res)
		}
	}
	sortReservations(out, func(a *inventory.Reservation) time.Time { return a.ExpiresAt() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortReservations(rs []*inventory.Reservation, by func(*inventory.Reservation) time.Time) {
	sort.Slice(rs, func(i, j int) bool {
		ti, tj := by(rs[i]), by(rs[j])
		if ti.Equal(tj) {
			return rs[i].ID().String() < rs[j].ID().String()
		}
		return ti.Before(tj)
	})
}

type movementRepo struct{ st *state }

func (r movementRepo) Append(_ context.Context, m *inventory.StockMovement) error {
	if _, ok := r.st.records[m.InventoryID]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "movement references unknown inventory record")
	}
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r movementRepo) ListByInventory(_ context.Context, inventoryID uuid.UUID, limit int) ([]*inventory.StockMovement, error) {
	var out []*inventory.StockMovement
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if m.InventoryID != inventoryID {
			continue
		}
		out = append(out, &m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type processedJobRepo struct{ st *state }

func (r processedJobRepo) MarkProcessed(_ context.Context, jobID, handler string, at time.Time) (bool, error) {
	key := jobKey{jobID, handler}
	if _, ok := r.st.processed[key]; ok {
		return false, nil
	}
	r.st.processed[key] = at
	return true, nil
}
