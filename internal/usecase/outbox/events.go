package outbox

import (
	"encoding/json"
	"time"

	"order-fulfillment/internal/domain/order"

	"github.com/google/uuid"
)

// Message is the job payload the relay hands to the queue.
type Message struct {
	EntryID       uuid.UUID       `json:"entryId"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     string          `json:"eventType"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

type OrderEvent struct {
	OrderID                uuid.UUID `json:"orderId"`
	UserID                 uuid.UUID `json:"userId"`
	Status                 string    `json:"status"`
	Total                  string    `json:"total"`
	Currency               string    `json:"currency"`
	PaymentID              *string   `json:"paymentId,omitempty"`
	FailureReason          string    `json:"failureReason,omitempty"`
	CompensationIncomplete bool      `json:"compensationIncomplete,omitempty"`
}

func NewOrderEvent(o *order.Order) OrderEvent {
	return OrderEvent{
		OrderID:                o.ID(),
		UserID:                 o.UserID(),
		Status:                 string(o.Status()),
		Total:                  o.Total().Amount().StringFixed(2),
		Currency:               o.Currency(),
		PaymentID:              o.PaymentID(),
		FailureReason:          string(o.FailureReason()),
		CompensationIncomplete: o.CompensationIncomplete(),
	}
}

type InventoryEvent struct {
	InventoryID    uuid.UUID  `json:"inventoryId"`
	ProductID      uuid.UUID  `json:"productId"`
	Location       string     `json:"location"`
	PhysicalStock  int        `json:"physicalStock"`
	ReservedStock  int        `json:"reservedStock"`
	AvailableStock int        `json:"availableStock"`
	ReorderPoint   int        `json:"reorderPoint"`
	MovementType   string     `json:"movementType,omitempty"`
	QuantityDelta  int        `json:"quantityDelta,omitempty"`
	ReservationID  *uuid.UUID `json:"reservationId,omitempty"`
}

type PaymentEvent struct {
	OrderID   uuid.UUID `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
}
