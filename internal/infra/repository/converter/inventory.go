package converter

import (
	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"
)

func RecordToRow(r *inventory.Record) sqlc.InventoryRecords {
	return sqlc.InventoryRecords{
		ID:            r.ID(),
		ProductID:     r.ProductID(),
		Location:      r.Location(),
		PhysicalStock: pgconv.IntToInt32(r.PhysicalStock()),
		ReservedStock: pgconv.IntToInt32(r.ReservedStock()),
		MinimumStock:  pgconv.IntToInt32(r.MinimumStock()),
		ReorderPoint:  pgconv.IntToInt32(r.ReorderPoint()),
		CreatedAt:     pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:     pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

func RecordToDomain(row sqlc.InventoryRecords) *inventory.Record {
	return inventory.ReconstructRecord(inventory.RecordParams{
		ID:            row.ID,
		ProductID:     row.ProductID,
		Location:      row.Location,
		PhysicalStock: int(row.PhysicalStock),
		ReservedStock: int(row.ReservedStock),
		MinimumStock:  int(row.MinimumStock),
		ReorderPoint:  int(row.ReorderPoint),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	})
}

func RecordsToDomain(rows []sqlc.InventoryRecords) []*inventory.Record {
	out := make([]*inventory.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecordToDomain(row))
	}
	return out
}

func ReservationToRow(r *inventory.Reservation) sqlc.Reservations {
	return sqlc.Reservations{
		ID:            r.ID(),
		ReservationID: r.ReservationID(),
		ProductID:     r.ProductID(),
		Location:      r.Location(),
		Quantity:      pgconv.IntToInt32(r.Quantity()),
		Status:        string(r.Status()),
		ExpiresAt:     pgconv.TimeToPgtype(r.ExpiresAt()),
		CreatedAt:     pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:     pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

func ReservationToDomain(row sqlc.Reservations) *inventory.Reservation {
	return inventory.ReconstructReservation(inventory.ReservationParams{
		ID:            row.ID,
		ReservationID: row.ReservationID,
		ProductID:     row.ProductID,
		Location:      row.Location,
		Quantity:      int(row.Quantity),
		Status:        inventory.ReservationStatus(row.Status),
		ExpiresAt:     pgconv.TimeFromPgtype(row.ExpiresAt),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	})
}

func ReservationsToDomain(rows []sqlc.Reservations) []*inventory.Reservation {
	out := make([]*inventory.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReservationToDomain(row))
	}
	return out
}

func MovementToRow(m *inventory.StockMovement) sqlc.StockMovements {
	return sqlc.StockMovements{
		ID:                     m.ID,
		InventoryID:            m.InventoryID,
		MovementType:           string(m.MovementType),
		QuantityDelta:          pgconv.IntToInt32(m.QuantityDelta),
		Reason:                 m.Reason,
		ResultingPhysicalStock: pgconv.IntToInt32(m.ResultingPhysicalStock),
		CreatedAt:              pgconv.TimeToPgtype(m.CreatedAt),
	}
}

func MovementToDomain(row sqlc.StockMovements) *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:                     row.ID,
		InventoryID:            row.InventoryID,
		MovementType:           inventory.MovementType(row.MovementType),
		QuantityDelta:          int(row.QuantityDelta),
		Reason:                 row.Reason,
		ResultingPhysicalStock: int(row.ResultingPhysicalStock),
		CreatedAt:              pgconv.TimeFromPgtype(row.CreatedAt),
	}
}
