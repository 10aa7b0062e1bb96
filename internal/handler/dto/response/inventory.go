package response

import (
	"time"

	"order-fulfillment/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type StockResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"productId"`
	Location       string    `json:"location"`
	PhysicalStock  int       `json:"physicalStock"`
	ReservedStock  int       `json:"reservedStock"`
	AvailableStock int       `json:"availableStock"`
	MinimumStock   int       `json:"minimumStock"`
	ReorderPoint   int       `json:"reorderPoint"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}

type StockMovementResponse struct {
	ID                     uuid.UUID `json:"id"`
	InventoryID            uuid.UUID `json:"inventoryId"`
	MovementType           string    `json:"movementType"`
	QuantityDelta          int       `json:"quantityDelta"`
	Reason                 string    `json:"reason,omitempty"`
	ResultingPhysicalStock int       `json:"resultingPhysicalStock"`
	CreatedAt              time.Time `json:"createdAt"`
}

func FromStockListView(v *queries.StockListView) *StockListResponse {
	out := StockListResponse{
		Items: make([]StockResponse, len(v.Items)),
		Page:  v.Page,
		Limit: v.Limit,
		Total: v.Total,
	}
	for i, item := range v.Items {
		_ = copier.Copy(&out.Items[i], item)
	}
	return &out
}

func FromStockMovementView(v *queries.StockMovementView) *StockMovementResponse {
	var out StockMovementResponse
	_ = copier.Copy(&out, v)
	return &out
}
