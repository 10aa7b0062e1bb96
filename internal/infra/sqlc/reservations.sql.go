package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `id, reservation_id, product_id, location, quantity, status, expires_at, created_at, updated_at`

func scanReservation(row pgx.Row) (Reservations, error) {
	var i Reservations
	err := row.Scan(
		&i.ID,
		&i.ReservationID,
		&i.ProductID,
		&i.Location,
		&i.Quantity,
		&i.Status,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectReservations(rows pgx.Rows) ([]Reservations, error) {
	defer rows.Close()
	var items []Reservations
	for rows.Next() {
		i, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createReservation = `-- name: CreateReservation :exec
INSERT INTO reservations (` + reservationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (q *Queries) CreateReservation(ctx context.Context, db DBTX, arg Reservations) error {
	_, err := db.Exec(ctx, createReservation,
		arg.ID,
		arg.ReservationID,
		arg.ProductID,
		arg.Location,
		arg.Quantity,
		arg.Status,
		arg.ExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getReservation = `-- name: GetReservation :one
SELECT ` + reservationColumns + `
FROM reservations
WHERE reservation_id = $1 AND product_id = $2 AND location = $3
`

func (q *Queries) GetReservation(ctx context.Context, db DBTX, reservationID, productID uuid.UUID, location string) (Reservations, error) {
	return scanReservation(db.QueryRow(ctx, getReservation, reservationID, productID, location))
}

const listReservationsByReservationID = `-- name: ListReservationsByReservationID :many
SELECT ` + reservationColumns + `
FROM reservations
WHERE reservation_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListReservationsByReservationID(ctx context.Context, db DBTX, reservationID uuid.UUID) ([]Reservations, error) {
	rows, err := db.Query(ctx, listReservationsByReservationID, reservationID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

const updateReservation = `-- name: UpdateReservation :execrows
UPDATE reservations SET quantity = $2, status = $3, updated_at = $4 WHERE id = $1
`

type UpdateReservationParams struct {
	ID        uuid.UUID          `json:"id"`
	Quantity  int32              `json:"quantity"`
	Status    string             `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateReservation(ctx context.Context, db DBTX, arg UpdateReservationParams) (int64, error) {
	result, err := db.Exec(ctx, updateReservation, arg.ID, arg.Quantity, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listExpiredReservations = `-- name: ListExpiredReservations :many
SELECT ` + reservationColumns + `
FROM reservations
WHERE status = 'ACTIVE' AND expires_at <= $1
ORDER BY expires_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED
`

func (q *Queries) ListExpiredReservations(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]Reservations, error) {
	rows, err := db.Query(ctx, listExpiredReservations, now, limit)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}
