package saga

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProcessOrderPayload struct {
	OrderID uuid.UUID `json:"orderId"`
}

// ProcessOrderJobID names the job for an order's first run (round 0) and for
// each requeue after a payment round, so redelivery of one run is dropped by
// the queue while a later round is not.
func ProcessOrderJobID(orderID uuid.UUID, round int) string {
	if round <= 0 {
		return "order:" + orderID.String()
	}
	return fmt.Sprintf("order:%s:%d", orderID, round)
}

// Scheduler puts process-order jobs on the order-processing queue.
type Scheduler struct {
	queue shared.Enqueuer
	cfg   config.SagaConfig
}

func NewScheduler(queue shared.Enqueuer, cfg config.SagaConfig) *Scheduler {
	return &Scheduler{queue: queue, cfg: cfg}
}

func (s *Scheduler) Schedule(ctx context.Context, orderID uuid.UUID, round int, delay time.Duration) error {
	body, err := json.Marshal(ProcessOrderPayload{OrderID: orderID})
	if err != nil {
		return errs.Wrap(err, "failed to encode process-order payload")
	}
	err = s.queue.Enqueue(ctx, shared.QueueOrderProcessing, shared.JobProcessOrder, body, shared.JobOptions{
		Attempts: s.cfg.ProcessOrderAttempts,
		Backoff:  s.cfg.ProcessOrderJobBackoff,
		Delay:    delay,
		JobID:    ProcessOrderJobID(orderID, round),
	})
	if err != nil {
		return errs.Wrapf(err, "failed to enqueue process-order for %s", orderID)
	}
	return nil
}

// Worker handles process-order jobs.
type Worker struct {
	saga      OrderSaga
	scheduler *Scheduler
	logger    *slog.Logger
}

func NewWorker(saga OrderSaga, scheduler *Scheduler, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{saga: saga, scheduler: scheduler, logger: logger}
}

func (w *Worker) Register(q shared.Worker) {
	q.Register(shared.QueueOrderProcessing, shared.JobProcessOrder, w.Handle)
}

func (w *Worker) Handle(ctx context.Context, job shared.Job) error {
	var p ProcessOrderPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil || p.OrderID == uuid.Nil {
		return errs.WithClass(errs.New("invalid process-order payload"), errs.ClassPermanent)
	}

	err := w.saga.Run(ctx, p.OrderID)
	if err == nil {
		return nil
	}

	var rq *RequeueError
	if errs.As(err, &rq) {
		return w.scheduler.Schedule(ctx, p.OrderID, rq.Round, rq.Delay)
	}
	if errs.ClassOf(err) == errs.ClassNotFound {
		w.logger.Error("process-order for unknown order", "order_id", p.OrderID.String(), "job_id", job.ID)
		return errs.WithClass(err, errs.ClassPermanent)
	}
	return err
}
