package order

import (
	"strings"
	"time"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the saga's aggregate. Status changes are decided by the saga
// transition table; the entity only records them.
type Order struct {
	id                     uuid.UUID
	userID                 uuid.UUID
	idempotencyKey         string
	status                 Status
	items                  []Item
	total                  money.Money
	paymentMethod          string
	paymentID              *string
	failureReason          FailureReason
	paymentRounds          int
	compensationIncomplete bool
	createdAt              time.Time
	updatedAt              time.Time
	processingStartedAt    *time.Time
	completedAt            *time.Time
}

func NewOrder(userID uuid.UUID, idempotencyKey string, items []Item, currency, paymentMethod string, now time.Time) (*Order, error) {
	if userID == uuid.Nil {
		return nil, ErrUserRequired
	}
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return nil, ErrIdempotencyKeyRequired
	}
	if len(key) > MaxIdempotencyKeyLength {
		return nil, ErrIdempotencyKeyTooLong
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, ErrPaymentMethodRequired
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total, err := money.New(decimal.Zero, currency)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := it.ProductID().String() + "@" + it.Location()
		if _, dup := seen[k]; dup {
			return nil, ErrDuplicateItem
		}
		seen[k] = struct{}{}

		total, err = total.Add(it.TotalPrice())
		if err != nil {
			return nil, errs.Wrap(err, "order total")
		}
	}

	return &Order{
		id:             uuid.New(),
		userID:         userID,
		idempotencyKey: key,
		status:         StatusPending,
		items:          append([]Item(nil), items...),
		total:          total,
		paymentMethod:  strings.TrimSpace(paymentMethod),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

type ReconstructParams struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	IdempotencyKey         string
	Status                 Status
	Items                  []Item
	Total                  money.Money
	PaymentMethod          string
	PaymentID              *string
	FailureReason          FailureReason
	PaymentRounds          int
	CompensationIncomplete bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ProcessingStartedAt    *time.Time
	CompletedAt            *time.Time
}

// Reconstruct restores a persisted order without validation.
func Reconstruct(p ReconstructParams) *Order {
	return &Order{
		id:                     p.ID,
		userID:                 p.UserID,
		idempotencyKey:         p.IdempotencyKey,
		status:                 p.Status,
		items:                  append([]Item(nil), p.Items...),
		total:                  p.Total,
		paymentMethod:          p.PaymentMethod,
		paymentID:              copyString(p.PaymentID),
		failureReason:          p.FailureReason,
		paymentRounds:          p.PaymentRounds,
		compensationIncomplete: p.CompensationIncomplete,
		createdAt:              p.CreatedAt,
		updatedAt:              p.UpdatedAt,
		processingStartedAt:    copyTime(p.ProcessingStartedAt),
		completedAt:            copyTime(p.CompletedAt),
	}
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) UserID() uuid.UUID            { return o.userID }
func (o *Order) IdempotencyKey() string       { return o.idempotencyKey }
func (o *Order) Status() Status               { return o.status }
func (o *Order) Items() []Item                { return append([]Item(nil), o.items...) }
func (o *Order) Total() money.Money           { return o.total }
func (o *Order) Currency() string             { return o.total.Currency() }
func (o *Order) PaymentMethod() string        { return o.paymentMethod }
func (o *Order) PaymentID() *string           { return copyString(o.paymentID) }
func (o *Order) FailureReason() FailureReason { return o.failureReason }
func (o *Order) PaymentRounds() int           { return o.paymentRounds }
func (o *Order) CompensationIncomplete() bool { return o.compensationIncomplete }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) ProcessingStartedAt() *time.Time {
	return copyTime(o.processingStartedAt)
}
func (o *Order) CompletedAt() *time.Time { return copyTime(o.completedAt) }

func (o *Order) HasPayment() bool { return o.paymentID != nil }

// Snapshot returns the fields needed to persist or clone the order.
func (o *Order) Snapshot() ReconstructParams {
	return ReconstructParams{
		ID:                     o.id,
		UserID:                 o.userID,
		IdempotencyKey:         o.idempotencyKey,
		Status:                 o.status,
		Items:                  o.Items(),
		Total:                  o.total,
		PaymentMethod:          o.paymentMethod,
		PaymentID:              o.PaymentID(),
		FailureReason:          o.failureReason,
		PaymentRounds:          o.paymentRounds,
		CompensationIncomplete: o.compensationIncomplete,
		CreatedAt:              o.createdAt,
		UpdatedAt:              o.updatedAt,
		ProcessingStartedAt:    o.ProcessingStartedAt(),
		CompletedAt:            o.CompletedAt(),
	}
}

// MoveTo records a status decided by the saga. Timestamps follow the status.
func (o *Order) MoveTo(to Status, now time.Time) {
	o.status = to
	o.updatedAt = now
	if to == StatusProcessing && o.processingStartedAt == nil {
		t := now
		o.processingStartedAt = &t
	}
	if to.IsTerminal() {
		t := now
		o.completedAt = &t
	}
}

func (o *Order) Fail(reason FailureReason) {
	if o.failureReason == ReasonNone {
		o.failureReason = reason
	}
}

func (o *Order) RecordPayment(paymentID string, now time.Time) {
	o.paymentID = &paymentID
	o.updatedAt = now
}

func (o *Order) StartPaymentRound(now time.Time) int {
	o.paymentRounds++
	o.updatedAt = now
	return o.paymentRounds
}

func (o *Order) MarkCompensationIncomplete() {
	o.compensationIncomplete = true
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
