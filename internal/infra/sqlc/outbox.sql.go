package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const outboxColumns = `id, aggregate_type, aggregate_id, event_type, payload, status, attempts, last_error,
	available_at, claimed_at, created_at, processed_at`

func scanOutboxEntry(row pgx.Row) (OutboxEntries, error) {
	var i OutboxEntries
	err := row.Scan(
		&i.ID,
		&i.AggregateType,
		&i.AggregateID,
		&i.EventType,
		&i.Payload,
		&i.Status,
		&i.Attempts,
		&i.LastError,
		&i.AvailableAt,
		&i.ClaimedAt,
		&i.CreatedAt,
		&i.ProcessedAt,
	)
	return i, err
}

func collectOutboxEntries(rows pgx.Rows) ([]OutboxEntries, error) {
	defer rows.Close()
	var items []OutboxEntries
	for rows.Next() {
		i, err := scanOutboxEntry(rows)
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

const insertOutboxEntry = `-- name: InsertOutboxEntry :exec
INSERT INTO outbox_entries (` + outboxColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (q *Queries) InsertOutboxEntry(ctx context.Context, db DBTX, arg OutboxEntries) error {
	_, err := db.Exec(ctx, insertOutboxEntry,
		arg.ID,
		arg.AggregateType,
		arg.AggregateID,
		arg.EventType,
		arg.Payload,
		arg.Status,
		arg.Attempts,
		arg.LastError,
		arg.AvailableAt,
		arg.ClaimedAt,
		arg.CreatedAt,
		arg.ProcessedAt,
	)
	return err
}

const getOutboxEntry = `-- name: GetOutboxEntry :one
SELECT ` + outboxColumns + ` FROM outbox_entries WHERE id = $1
`

func (q *Queries) GetOutboxEntry(ctx context.Context, db DBTX, id uuid.UUID) (OutboxEntries, error) {
	return scanOutboxEntry(db.QueryRow(ctx, getOutboxEntry, id))
}

// Stale PROCESSING rows were claimed by a dispatcher that never finished.
const claimOutboxEntries = `-- name: ClaimOutboxEntries :many
UPDATE outbox_entries
SET status = 'PROCESSING', claimed_at = $1
WHERE id IN (
    SELECT id FROM outbox_entries
    WHERE (status = 'PENDING' AND available_at <= $1)
       OR (status = 'PROCESSING' AND claimed_at < $2)
    ORDER BY created_at, id
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + outboxColumns + `
`

type ClaimOutboxEntriesParams struct {
	Now         pgtype.Timestamptz `json:"now"`
	StaleBefore pgtype.Timestamptz `json:"stale_before"`
	Limit       int32              `json:"limit"`
}

func (q *Queries) ClaimOutboxEntries(ctx context.Context, db DBTX, arg ClaimOutboxEntriesParams) ([]OutboxEntries, error) {
	rows, err := db.Query(ctx, claimOutboxEntries, arg.Now, arg.StaleBefore, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectOutboxEntries(rows)
}

const markOutboxProcessed = `-- name: MarkOutboxProcessed :execrows
UPDATE outbox_entries
SET status = 'PROCESSED', processed_at = $2
WHERE id = $1 AND status = 'PROCESSING'
`

func (q *Queries) MarkOutboxProcessed(ctx context.Context, db DBTX, id uuid.UUID, at pgtype.Timestamptz) (int64, error) {
	result, err := db.Exec(ctx, markOutboxProcessed, id, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markOutboxRetry = `-- name: MarkOutboxRetry :execrows
UPDATE outbox_entries
SET status = 'PENDING', attempts = $2, last_error = $3, available_at = $4, claimed_at = NULL
WHERE id = $1 AND status = 'PROCESSING'
`

type MarkOutboxRetryParams struct {
	ID          uuid.UUID          `json:"id"`
	Attempts    int32              `json:"attempts"`
	LastError   pgtype.Text        `json:"last_error"`
	AvailableAt pgtype.Timestamptz `json:"available_at"`
}

func (q *Queries) MarkOutboxRetry(ctx context.Context, db DBTX, arg MarkOutboxRetryParams) (int64, error) {
	result, err := db.Exec(ctx, markOutboxRetry, arg.ID, arg.Attempts, arg.LastError, arg.AvailableAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markOutboxFailed = `-- name: MarkOutboxFailed :execrows
UPDATE outbox_entries
SET status = 'FAILED', attempts = $2, last_error = $3
WHERE id = $1 AND status = 'PROCESSING'
`

type MarkOutboxFailedParams struct {
	ID        uuid.UUID   `json:"id"`
	Attempts  int32       `json:"attempts"`
	LastError pgtype.Text `json:"last_error"`
}

func (q *Queries) MarkOutboxFailed(ctx context.Context, db DBTX, arg MarkOutboxFailedParams) (int64, error) {
	result, err := db.Exec(ctx, markOutboxFailed, arg.ID, arg.Attempts, arg.LastError)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listOutboxByAggregate = `-- name: ListOutboxByAggregate :many
SELECT ` + outboxColumns + `
FROM outbox_entries
WHERE aggregate_type = $1 AND aggregate_id = $2
ORDER BY created_at, id
`

func (q *Queries) ListOutboxByAggregate(ctx context.Context, db DBTX, aggregateType, aggregateID string) ([]OutboxEntries, error) {
	rows, err := db.Query(ctx, listOutboxByAggregate, aggregateType, aggregateID)
	if err != nil {
		return nil, err
	}
	return collectOutboxEntries(rows)
}
