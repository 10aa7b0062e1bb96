package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"order-fulfillment/internal/pkg/clock"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/outbox"
	"order-fulfillment/internal/usecase/shared"
)

type Notification struct {
	Kind    string
	OrderID string
	UserID  string
	Subject string
	Body    string
}

//go:generate mockgen -source=notification.go -destination=../../../tests/mock/notification/sender.go -package=notificationmock
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender stands in for an email or push provider.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Info("notification sent", "kind", n.Kind, "order_id", n.OrderID, "user_id", n.UserID, "subject", n.Subject)
	return nil
}

// Handlers consume relay jobs. Each job id is recorded per handler in the same
// transaction as the side effect, so a redelivered job does nothing.
type Handlers struct {
	uow    shared.UnitOfWork
	sender Sender
	clock  clock.Clock
	logger *slog.Logger
}

func NewHandlers(uow shared.UnitOfWork, sender Sender, clk clock.Clock, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{uow: uow, sender: sender, clock: clk, logger: logger}
}

func (h *Handlers) Register(w shared.Worker) {
	w.Register(shared.QueueNotifications, shared.JobSendOrderConfirmation, h.OrderNotification(shared.JobSendOrderConfirmation))
	w.Register(shared.QueueNotifications, shared.JobSendOrderFailure, h.OrderNotification(shared.JobSendOrderFailure))
	w.Register(shared.QueueNotifications, shared.JobSendOrderCancellation, h.OrderNotification(shared.JobSendOrderCancellation))
	w.Register(shared.QueueInventoryManagement, shared.JobInventoryEvent, h.Audit(shared.JobInventoryEvent))
	w.Register(shared.QueuePaymentProcessing, shared.JobPaymentEvent, h.Audit(shared.JobPaymentEvent))
	w.Register(shared.QueueDefault, shared.JobGenericEvent, h.Audit(shared.JobGenericEvent))
}

func (h *Handlers) OrderNotification(kind string) shared.JobHandler {
	return func(ctx context.Context, job shared.Job) error {
		var msg outbox.Message
		if err := json.Unmarshal(job.Payload, &msg); err != nil {
			return errs.WithClass(errs.Wrap(err, "invalid notification job payload"), errs.ClassPermanent)
		}
		var ev outbox.OrderEvent
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return errs.WithClass(errs.Wrap(err, "invalid order event payload"), errs.ClassPermanent)
		}
		n := Notification{
			Kind:    kind,
			OrderID: ev.OrderID.String(),
			UserID:  ev.UserID.String(),
			Subject: subjectFor(kind, ev),
			Body:    fmt.Sprintf("Order %s is %s. Total %s %s.", ev.OrderID, ev.Status, ev.Total, ev.Currency),
		}
		return h.once(ctx, job, kind, func(ctx context.Context) error {
			return h.sender.Send(ctx, n)
		})
	}
}

// Audit records inventory, payment and unrouted events for downstream systems.
func (h *Handlers) Audit(kind string) shared.JobHandler {
	return func(ctx context.Context, job shared.Job) error {
		var msg outbox.Message
		if err := json.Unmarshal(job.Payload, &msg); err != nil {
			return errs.WithClass(errs.Wrap(err, "invalid event job payload"), errs.ClassPermanent)
		}
		return h.once(ctx, job, kind, func(context.Context) error {
			h.logger.Info("domain event consumed",
				"handler", kind, "aggregate_type", msg.AggregateType, "aggregate_id", msg.AggregateID,
				"event_type", msg.EventType, "entry_id", msg.EntryID.String())
			return nil
		})
	}
}

func (h *Handlers) once(ctx context.Context, job shared.Job, handler string, effect func(context.Context) error) error {
	return h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		fresh, err := tx.ProcessedJobs().MarkProcessed(ctx, job.ID, handler, h.clock.Now())
		if err != nil {
			return err
		}
		if !fresh {
			h.logger.Info("duplicate job ignored", "handler", handler, "job_id", job.ID)
			return nil
		}
		return effect(ctx)
	})
}

func subjectFor(kind string, ev outbox.OrderEvent) string {
	switch kind {
	case shared.JobSendOrderConfirmation:
		return "Your order is confirmed"
	case shared.JobSendOrderCancellation:
		return "Your order was cancelled"
	default:
		if ev.FailureReason != "" {
			return "We could not complete your order (" + ev.FailureReason + ")"
		}
		return "We could not complete your order"
	}
}
