package request

import (
	"strings"

	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	UserID        uuid.UUID          `json:"user_id" binding:"required"`
	Currency      string             `json:"currency" binding:"required,len=3,uppercase"`
	PaymentMethod string             `json:"payment_method" binding:"required,max=50"`
	Items         []PlaceOrderItemIn `json:"items" binding:"required,min=1,max=100,dive"`
}

type PlaceOrderItemIn struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Location  string          `json:"location" binding:"omitempty,max=100"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ToItems builds order items; a blank location falls back to defaultLocation.
func (r PlaceOrderRequest) ToItems(defaultLocation string) ([]order.Item, error) {
	items := make([]order.Item, 0, len(r.Items))
	for _, in := range r.Items {
		price, err := money.New(in.UnitPrice, r.Currency)
		if err != nil {
			return nil, err
		}
		location := strings.TrimSpace(in.Location)
		if location == "" {
			location = defaultLocation
		}
		it, err := order.NewItem(in.ProductID, location, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
