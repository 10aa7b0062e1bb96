package shared

import (
	"context"
	"time"
)

const (
	QueueOrderProcessing     = "order-processing"
	QueueNotifications       = "notifications"
	QueueInventoryManagement = "inventory-management"
	QueuePaymentProcessing   = "payment-processing"
	QueueDefault             = "default"
)

const (
	JobProcessOrder          = "process-order"
	JobSendOrderConfirmation = "send-order-confirmation"
	JobSendOrderFailure      = "send-order-failure"
	JobSendOrderCancellation = "send-order-cancellation"
	JobInventoryEvent        = "inventory-event"
	JobPaymentEvent          = "payment-event"
	JobGenericEvent          = "generic-event"
)

type Job struct {
	ID      string
	Queue   string
	Type    string
	Payload []byte
	// Attempt starts at 1.
	Attempt int
	// Headers carry trace context between producer and consumer.
	Headers map[string]string
}

type JobHandler func(ctx context.Context, job Job) error

type JobOptions struct {
	Attempts int
	Backoff  time.Duration
	Delay    time.Duration
	Priority int
	// JobID deduplicates: a queue drops a job whose id is still queued or running.
	JobID string
}

//go:generate mockgen -source=queue.go -destination=../../../tests/mock/shared/queue.go -package=sharedmock
type Enqueuer interface {
	Enqueue(ctx context.Context, queue, jobType string, payload []byte, opts JobOptions) error
}

type Worker interface {
	Register(queue, jobType string, h JobHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
