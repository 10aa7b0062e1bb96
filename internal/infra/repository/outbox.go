package repository

import (
	"context"
	"sort"
	"time"

	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/repository/converter"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

//go:generate mockgen -source=outbox.go -destination=../../../tests/mock/repository/outbox.go -package=repositorymock
type OutboxQueries interface {
	InsertOutboxEntry(ctx context.Context, db sqlc.DBTX, arg sqlc.OutboxEntries) error
	GetOutboxEntry(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.OutboxEntries, error)
	ClaimOutboxEntries(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimOutboxEntriesParams) ([]sqlc.OutboxEntries, error)
	MarkOutboxProcessed(ctx context.Context, db sqlc.DBTX, id uuid.UUID, at pgtype.Timestamptz) (int64, error)
	MarkOutboxRetry(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkOutboxRetryParams) (int64, error)
	MarkOutboxFailed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkOutboxFailedParams) (int64, error)
	ListOutboxByAggregate(ctx context.Context, db sqlc.DBTX, aggregateType, aggregateID string) ([]sqlc.OutboxEntries, error)
}

type OutboxRepository struct {
	queries OutboxQueries
	db      sqlc.DBTX
}

func NewOutboxRepository(queries OutboxQueries, db sqlc.DBTX) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OutboxRepository) Append(ctx context.Context, e *outbox.Entry) error {
	if err := r.queries.InsertOutboxEntry(ctx, r.db, converter.OutboxToRow(e)); err != nil {
		return infra.WrapRepoErr("failed to append outbox entry", err)
	}
	return nil
}

func (r *OutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*outbox.Entry, error) {
	row, err := r.queries.GetOutboxEntry(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find outbox entry", err)
	}
	return converter.OutboxToDomain(row), nil
}

func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int, now, staleBefore time.Time) ([]*outbox.Entry, error) {
	rows, err := r.queries.ClaimOutboxEntries(ctx, r.db, sqlc.ClaimOutboxEntriesParams{
		Now:         pgconv.TimeToPgtype(now),
		StaleBefore: pgconv.TimeToPgtype(staleBefore),
		Limit:       pgconv.IntToInt32(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox entries", err)
	}
	entries := converter.OutboxListToDomain(rows)
	// RETURNING does not preserve the subquery order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	affected, err := r.queries.MarkOutboxProcessed(ctx, r.db, id, pgconv.TimeToPgtype(at))
	return checkClaimed("mark outbox entry processed", affected, err)
}

func (r *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, availableAt time.Time) error {
	affected, err := r.queries.MarkOutboxRetry(ctx, r.db, sqlc.MarkOutboxRetryParams{
		ID:          id,
		Attempts:    pgconv.IntToInt32(attempts),
		LastError:   pgconv.StringToPgtype(lastErr),
		AvailableAt: pgconv.TimeToPgtype(availableAt),
	})
	return checkClaimed("mark outbox entry for retry", affected, err)
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	affected, err := r.queries.MarkOutboxFailed(ctx, r.db, sqlc.MarkOutboxFailedParams{
		ID:        id,
		Attempts:  pgconv.IntToInt32(attempts),
		LastError: pgconv.StringToPgtype(lastErr),
	})
	return checkClaimed("mark outbox entry failed", affected, err)
}

func (r *OutboxRepository) ListByAggregate(ctx context.Context, aggregateType outbox.AggregateType, aggregateID string) ([]*outbox.Entry, error) {
	rows, err := r.queries.ListOutboxByAggregate(ctx, r.db, string(aggregateType), aggregateID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list outbox entries", err)
	}
	return converter.OutboxListToDomain(rows), nil
}

// A zero row count means another dispatcher took the entry over after a stale claim.
func checkClaimed(op string, affected int64, err error) error {
	if err != nil {
		return infra.WrapRepoErr("failed to "+op, err)
	}
	if affected == 0 {
		return infra.NewRepoErr(infra.KindConflict, op+": entry is no longer claimed")
	}
	return nil
}
