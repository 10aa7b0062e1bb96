package repository

import (
	"context"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/repository/reservation.go -package=repositorymock
type ReservationQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.Reservations) error
	GetReservation(ctx context.Context, db sqlc.DBTX, reservationID, productID uuid.UUID, location string) (sqlc.Reservations, error)
	ListReservationsByReservationID(ctx context.Context, db sqlc.DBTX, reservationID uuid.UUID) ([]sqlc.Reservations, error)
	UpdateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationParams) (int64, error)
	ListExpiredReservations(ctx context.Context, db sqlc.DBTX, now pgtype.Timestamptz, limit int32) ([]sqlc.Reservations, error)
}

type ReservationRepository struct {
	queries ReservationQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *inventory.Reservation) error {
	if err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToRow(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Find(ctx context.Context, reservationID, productID uuid.UUID, location string) (*inventory.Reservation, error) {
	row, err := r.queries.GetReservation(ctx, r.db, reservationID, productID, location)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return converter.ReservationToDomain(row), nil
}

func (r *ReservationRepository) ListByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*inventory.Reservation, error) {
	rows, err := r.queries.ListReservationsByReservationID(ctx, r.db, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return converter.ReservationsToDomain(rows), nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *inventory.Reservation) error {
	affected, err := r.queries.UpdateReservation(ctx, r.db, sqlc.UpdateReservationParams{
		ID:        res.ID(),
		Quantity:  pgconv.IntToInt32(res.Quantity()),
		Status:    string(res.Status()),
		UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if affected == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}

func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*inventory.Reservation, error) {
	rows, err := r.queries.ListExpiredReservations(ctx, r.db, pgconv.TimeToPgtype(now), pgconv.IntToInt32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired reservations", err)
	}
	return converter.ReservationsToDomain(rows), nil
}
