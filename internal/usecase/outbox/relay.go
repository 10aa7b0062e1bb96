package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/pkg/poller"
	"order-fulfillment/internal/pkg/telemetry"
	"order-fulfillment/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DispatchResult struct {
	Claimed    int
	Dispatched int
	Skipped    int
	Retried    int
	Failed     int
}

// Relay moves committed outbox entries onto the queue.
type Relay struct {
	uow    shared.UnitOfWork
	queue  shared.Enqueuer
	clock  clock.Clock
	cfg    config.RelayConfig
	logger *slog.Logger
	tracer trace.Tracer
	poller *poller.Poller
}

func NewRelay(uow shared.UnitOfWork, queue shared.Enqueuer, clk clock.Clock, cfg config.RelayConfig, tp trace.TracerProvider, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Relay{
		uow:    uow,
		queue:  queue,
		clock:  clk,
		cfg:    cfg,
		logger: logger,
		tracer: telemetry.Tracer(tp),
	}
	r.poller = poller.New("outbox-relay", cfg.PollInterval, func(ctx context.Context) error {
		_, err := r.DispatchBatch(ctx, cfg.BatchSize)
		return err
	}, logger)
	return r
}

// Start begins polling unless the relay is disabled.
func (r *Relay) Start() {
	if !r.cfg.Enabled {
		r.logger.Info("outbox relay disabled")
		return
	}
	r.poller.Start()
}

// Stop waits for the in-flight batch to finish.
func (r *Relay) Stop(ctx context.Context) error {
	return r.poller.Stop(ctx)
}

func (r *Relay) DispatchBatch(ctx context.Context, batchSize int) (DispatchResult, error) {
	var res DispatchResult
	if batchSize <= 0 {
		return res, nil
	}

	now := r.clock.Now()
	var claimed []*outbox.Entry
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		claimed, err = tx.Outbox().ClaimBatch(ctx, batchSize, now, now.Add(-r.cfg.ClaimTimeout))
		return err
	})
	if err != nil {
		return res, errs.Wrap(err, "failed to claim outbox entries")
	}
	res.Claimed = len(claimed)

	for _, e := range claimed {
		switch r.dispatchOne(ctx, e) {
		case outcomeDispatched:
			res.Dispatched++
		case outcomeSkipped:
			res.Skipped++
		case outcomeRetried:
			res.Retried++
		case outcomeFailed:
			res.Failed++
		}
	}
	if res.Claimed > 0 {
		r.logger.Info("outbox batch dispatched",
			"claimed", res.Claimed, "dispatched", res.Dispatched, "skipped", res.Skipped,
			"retried", res.Retried, "failed", res.Failed)
	}
	return res, nil
}

type outcome int

const (
	outcomeUnsettled outcome = iota
	outcomeDispatched
	outcomeSkipped
	outcomeRetried
	outcomeFailed
)

// dispatchOne never returns an error: one entry's failure must not stop the batch.
func (r *Relay) dispatchOne(ctx context.Context, e *outbox.Entry) outcome {
	ctx, span := r.tracer.Start(ctx, "outbox.dispatch", trace.WithAttributes(
		attribute.String("outbox.entry_id", e.ID.String()),
		attribute.String("outbox.aggregate_type", string(e.AggregateType)),
		attribute.String("outbox.event_type", e.EventType),
	))
	defer span.End()

	route := RouteFor(e.AggregateType, e.EventType)
	if route.Skip {
		if r.markProcessed(ctx, e) {
			return outcomeSkipped
		}
		return outcomeUnsettled
	}

	body, err := json.Marshal(Message{
		EntryID:       e.ID,
		AggregateType: string(e.AggregateType),
		AggregateID:   e.AggregateID,
		EventType:     e.EventType,
		Payload:       e.Payload,
		OccurredAt:    e.CreatedAt,
	})
	if err == nil {
		err = r.queue.Enqueue(ctx, route.Queue, route.JobType, body, shared.JobOptions{
			Attempts: r.cfg.JobAttempts,
			Backoff:  r.cfg.JobBackoff,
			JobID:    e.ID.String(),
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enqueue failed")
		return r.reschedule(ctx, e, err)
	}

	if r.markProcessed(ctx, e) {
		return outcomeDispatched
	}
	return outcomeUnsettled
}

// markProcessed reports whether the entry was settled. When it was not, the
// claim goes stale and the entry is re-dispatched under the same job id.
func (r *Relay) markProcessed(ctx context.Context, e *outbox.Entry) bool {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Outbox().MarkProcessed(ctx, e.ID, r.clock.Now())
	})
	if err != nil {
		r.logClaimLoss("failed to mark outbox entry processed", e, err)
		return false
	}
	return true
}

func (r *Relay) reschedule(ctx context.Context, e *outbox.Entry, cause error) outcome {
	attempts := e.Attempts + 1
	lastErr := cause.Error()

	if attempts >= r.cfg.MaxAttempts {
		err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Outbox().MarkFailed(ctx, e.ID, attempts, lastErr)
		})
		if err != nil {
			r.logClaimLoss("failed to mark outbox entry failed", e, err)
			return outcomeUnsettled
		}
		r.logger.Error("outbox entry exhausted its attempts",
			"entry_id", e.ID.String(), "event_type", e.EventType, "attempts", attempts,
			"error", lastErr, "manual_intervention", true)
		return outcomeFailed
	}

	availableAt := r.clock.Now().Add(retryDelay(r.cfg.RetryBackoff, attempts))
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Outbox().MarkRetry(ctx, e.ID, attempts, lastErr, availableAt)
	})
	if err != nil {
		r.logClaimLoss("failed to schedule outbox retry", e, err)
		return outcomeUnsettled
	}
	r.logger.Warn("outbox dispatch failed, will retry",
		"entry_id", e.ID.String(), "attempt", attempts, "available_at", availableAt, "error", lastErr)
	return outcomeRetried
}

func (r *Relay) logClaimLoss(msg string, e *outbox.Entry, err error) {
	if infra.IsKind(err, infra.KindConflict) {
		r.logger.Info("outbox entry was reclaimed by another dispatcher", "entry_id", e.ID.String())
		return
	}
	r.logger.Error(msg, "entry_id", e.ID.String(), "error", err.Error())
}

func retryDelay(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 16 {
		attempts = 16
	}
	return base * time.Duration(1<<(attempts-1))
}
