package outbox

import (
	"encoding/json"
	"strings"
	"time"

	"order-fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

type AggregateType string

const (
	AggregateOrder     AggregateType = "Order"
	AggregateInventory AggregateType = "Inventory"
	AggregatePayment   AggregateType = "Payment"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusFailed     Status = "FAILED"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderFailed    = "OrderFailed"
	EventOrderCancelled = "OrderCancelled"

	EventLowStockDetected   = "LowStockDetected"
	EventStockAdjusted      = "StockAdjusted"
	EventReservationExpired = "ReservationExpired"

	EventPaymentCaptured = "PaymentCaptured"
	EventPaymentRefunded = "PaymentRefunded"
)

var (
	ErrAggregateTypeRequired = errs.NewClassed("outbox aggregate type is required", errs.ClassValidation)
	ErrAggregateIDRequired   = errs.NewClassed("outbox aggregate id is required", errs.ClassValidation)
	ErrEventTypeRequired     = errs.NewClassed("outbox event type is required", errs.ClassValidation)
	ErrInvalidPayload        = errs.NewClassed("outbox payload must be valid JSON", errs.ClassValidation)
)

// Entry is one durable event. It moves PENDING -> PROCESSING -> PROCESSED,
// back to PENDING for a retry, or FAILED once attempts run out. Rows are never deleted.
type Entry struct {
	ID            uuid.UUID
	AggregateType AggregateType
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
	Status        Status
	Attempts      int
	LastError     *string
	AvailableAt   time.Time
	ClaimedAt     *time.Time
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

func NewEntry(aggregateType AggregateType, aggregateID, eventType string, payload []byte, now time.Time) (*Entry, error) {
	if strings.TrimSpace(string(aggregateType)) == "" {
		return nil, ErrAggregateTypeRequired
	}
	if strings.TrimSpace(aggregateID) == "" {
		return nil, ErrAggregateIDRequired
	}
	if strings.TrimSpace(eventType) == "" {
		return nil, ErrEventTypeRequired
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if !json.Valid(payload) {
		return nil, ErrInvalidPayload
	}
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       append(json.RawMessage(nil), payload...),
		Status:        StatusPending,
		AvailableAt:   now,
		CreatedAt:     now,
	}, nil
}

func (e *Entry) Clone() *Entry {
	c := *e
	c.Payload = append(json.RawMessage(nil), e.Payload...)
	if e.LastError != nil {
		v := *e.LastError
		c.LastError = &v
	}
	if e.ClaimedAt != nil {
		v := *e.ClaimedAt
		c.ClaimedAt = &v
	}
	if e.ProcessedAt != nil {
		v := *e.ProcessedAt
		c.ProcessedAt = &v
	}
	return &c
}

// Claimable reports whether a dispatcher may take the entry at now.
// A PROCESSING entry whose claim predates staleBefore was abandoned by a crashed dispatcher.
func (e *Entry) Claimable(now, staleBefore time.Time) bool {
	switch e.Status {
	case StatusPending:
		return !e.AvailableAt.After(now)
	case StatusProcessing:
		return e.ClaimedAt != nil && e.ClaimedAt.Before(staleBefore)
	default:
		return false
	}
}

func (e *Entry) Claim(now time.Time) {
	e.Status = StatusProcessing
	t := now
	e.ClaimedAt = &t
}

func (e *Entry) MarkProcessed(now time.Time) {
	e.Status = StatusProcessed
	t := now
	e.ProcessedAt = &t
}

func (e *Entry) MarkRetry(attempts int, lastErr string, availableAt time.Time) {
	e.Status = StatusPending
	e.Attempts = attempts
	e.LastError = &lastErr
	e.AvailableAt = availableAt
	e.ClaimedAt = nil
}

func (e *Entry) MarkFailed(attempts int, lastErr string) {
	e.Status = StatusFailed
	e.Attempts = attempts
	e.LastError = &lastErr
}
