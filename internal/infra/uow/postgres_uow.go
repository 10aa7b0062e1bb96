package uow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"order-fulfillment/internal/infra/repository"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	txMaxRetries = 3
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *sqlc.Queries
	// newBackOff builds the wait schedule between serialization retries.
	newBackOff func() backoff.BackOff
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool:       pool,
		q:          q,
		newBackOff: defaultTxBackOff,
	}
}

func defaultTxBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.Multiplier = 2
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, txMaxRetries)
}

// Within runs fn in a READ COMMITTED transaction. Ledger rows are locked
// explicitly and order updates are guarded by expected status, so only
// deadlocks and serialization failures are retried.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	attempt := 0
	var lastErr error
	op := func() error {
		attempt++
		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "Retrying transaction", "attempt", attempt, "wait", wait, "error", err)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(u.newBackOff(), ctx), notify)
	switch {
	case err == nil:
		return nil
	case isRetryableError(err):
		slog.ErrorContext(ctx, "Transaction failed after max retries", "attempts", attempt, "error", err)
		return errs.WithClass(errs.Mark(err, errMaxRetriesExceeded), errs.ClassRetriable)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Cancelled while waiting between attempts.
		if lastErr != nil && !errors.Is(lastErr, ctx.Err()) {
			return errs.WithClass(errs.Mark(lastErr, errMaxRetriesExceeded), errs.ClassRetriable)
		}
		return err
	default:
		return err
	}
}

func (u *PostgresUoW) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.WithClass(errs.Mark(err, errTransactionBegin), errs.ClassRetriable)
	}

	if err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u}); err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "Rollback failed", "error", rbErr)
	}
	return err
}

// WithinReadOnly gives fn a REPEATABLE READ snapshot across tables.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.WithClass(errs.Mark(err, errTransactionBegin), errs.ClassRetriable)
	}
	defer func() {
		if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Rollback of read-only transaction failed", "error", rbErr)
		}
	}()

	if err := fn(ctx, &pgTx{dbtx: pgxTx, uow: u}); err != nil {
		return err
	}
	return pgxTx.Commit(ctx)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	// repositories are built on first use
	orderRepo        shared.OrderRepository
	outboxRepo       shared.OutboxRepository
	inventoryRepo    shared.InventoryRepository
	reservationRepo  shared.ReservationRepository
	movementRepo     shared.StockMovementRepository
	processedJobRepo shared.ProcessedJobRepository
}

func (t *pgTx) Orders() shared.OrderRepository {
	if t.orderRepo == nil {
		t.orderRepo = repository.NewOrderRepository(t.uow.q, t.dbtx)
	}
	return t.orderRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.uow.q, t.dbtx)
	}
	return t.outboxRepo
}

func (t *pgTx) Inventory() shared.InventoryRepository {
	if t.inventoryRepo == nil {
		t.inventoryRepo = repository.NewInventoryRepository(t.uow.q, t.dbtx)
	}
	return t.inventoryRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.uow.q, t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Movements() shared.StockMovementRepository {
	if t.movementRepo == nil {
		t.movementRepo = repository.NewStockMovementRepository(t.uow.q, t.dbtx)
	}
	return t.movementRepo
}

func (t *pgTx) ProcessedJobs() shared.ProcessedJobRepository {
	if t.processedJobRepo == nil {
		t.processedJobRepo = repository.NewProcessedJobRepository(t.uow.q, t.dbtx)
	}
	return t.processedJobRepo
}
