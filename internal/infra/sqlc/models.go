package sqlc

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type InventoryRecords struct {
	ID            uuid.UUID          `json:"id"`
	ProductID     uuid.UUID          `json:"product_id"`
	Location      string             `json:"location"`
	PhysicalStock int32              `json:"physical_stock"`
	ReservedStock int32              `json:"reserved_stock"`
	MinimumStock  int32              `json:"minimum_stock"`
	ReorderPoint  int32              `json:"reorder_point"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type OrderItems struct {
	OrderID        uuid.UUID `json:"order_id"`
	LineNo         int32     `json:"line_no"`
	ProductID      uuid.UUID `json:"product_id"`
	Location       string    `json:"location"`
	Quantity       int32     `json:"quantity"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
}

type Orders struct {
	ID                     uuid.UUID          `json:"id"`
	UserID                 uuid.UUID          `json:"user_id"`
	IdempotencyKey         string             `json:"idempotency_key"`
	Status                 string             `json:"status"`
	TotalMinor             int64              `json:"total_minor"`
	Currency               string             `json:"currency"`
	PaymentMethod          string             `json:"payment_method"`
	PaymentID              pgtype.Text        `json:"payment_id"`
	FailureReason          pgtype.Text        `json:"failure_reason"`
	PaymentRounds          int32              `json:"payment_rounds"`
	CompensationIncomplete bool               `json:"compensation_incomplete"`
	CreatedAt              pgtype.Timestamptz `json:"created_at"`
	UpdatedAt              pgtype.Timestamptz `json:"updated_at"`
	ProcessingStartedAt    pgtype.Timestamptz `json:"processing_started_at"`
	CompletedAt            pgtype.Timestamptz `json:"completed_at"`
}

type OutboxEntries struct {
	ID            uuid.UUID          `json:"id"`
	AggregateType string             `json:"aggregate_type"`
	AggregateID   string             `json:"aggregate_id"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	Status        string             `json:"status"`
	Attempts      int32              `json:"attempts"`
	LastError     pgtype.Text        `json:"last_error"`
	AvailableAt   pgtype.Timestamptz `json:"available_at"`
	ClaimedAt     pgtype.Timestamptz `json:"claimed_at"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	ProcessedAt   pgtype.Timestamptz `json:"processed_at"`
}

type ProcessedJobs struct {
	JobID       string             `json:"job_id"`
	Handler     string             `json:"handler"`
	ProcessedAt pgtype.Timestamptz `json:"processed_at"`
}

type Reservations struct {
	ID            uuid.UUID          `json:"id"`
	ReservationID uuid.UUID          `json:"reservation_id"`
	ProductID     uuid.UUID          `json:"product_id"`
	Location      string             `json:"location"`
	Quantity      int32              `json:"quantity"`
	Status        string             `json:"status"`
	ExpiresAt     pgtype.Timestamptz `json:"expires_at"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type StockMovements struct {
	ID                     uuid.UUID          `json:"id"`
	InventoryID            uuid.UUID          `json:"inventory_id"`
	MovementType           string             `json:"movement_type"`
	QuantityDelta          int32              `json:"quantity_delta"`
	Reason                 string             `json:"reason"`
	ResultingPhysicalStock int32              `json:"resulting_physical_stock"`
	CreatedAt              pgtype.Timestamptz `json:"created_at"`
}
