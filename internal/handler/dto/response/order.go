package response

import (
	"time"

	"order-fulfillment/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID                     uuid.UUID           `json:"id"`
	UserID                 uuid.UUID           `json:"userId"`
	Status                 string              `json:"status"`
	FailureReason          *string             `json:"failureReason,omitempty"`
	PaymentID              *string             `json:"paymentId,omitempty"`
	PaymentMethod          string              `json:"paymentMethod"`
	PaymentRounds          int                 `json:"paymentRounds"`
	CompensationIncomplete bool                `json:"compensationIncomplete"`
	Total                  string              `json:"total"`
	Currency               string              `json:"currency"`
	Items                  []OrderItemResponse `json:"items"`
	CreatedAt              time.Time           `json:"createdAt"`
	UpdatedAt              time.Time           `json:"updatedAt"`
	ProcessingStartedAt    *time.Time          `json:"processingStartedAt,omitempty"`
	CompletedAt            *time.Time          `json:"completedAt,omitempty"`
}

type OrderItemResponse struct {
	ProductID  uuid.UUID `json:"productId"`
	Location   string    `json:"location"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
	TotalPrice string    `json:"totalPrice"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	var out OrderResponse
	// Field names match one to one.
	_ = copier.Copy(&out, v)
	return &out
}
