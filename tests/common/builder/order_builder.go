//go:build unit || e2e

package builder

import (
	"time"

	"order-fulfillment/internal/domain/money"
	domorder "order-fulfillment/internal/domain/order"
	reqdto "order-fulfillment/internal/handler/dto/request"
	"order-fulfillment/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemSpec struct {
	ProductID uuid.UUID
	Location  string
	Quantity  int
	UnitPrice string
}

type OrderBuilder struct {
	UserID         uuid.UUID
	IdempotencyKey string
	Currency       string
	PaymentMethod  string
	Items          []ItemSpec
	CreatedAt      time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		UserID:         uuid.New(),
		IdempotencyKey: "order-" + uuid.NewString(),
		Currency:       "USD",
		PaymentMethod:  "credit_card",
		Items: []ItemSpec{
			{ProductID: uuid.New(), Location: "main", Quantity: 2, UnitPrice: "25.00"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithItem(productID uuid.UUID, quantity int, unitPrice string) *OrderBuilder {
	b.Items = append(b.Items, ItemSpec{ProductID: productID, Location: "main", Quantity: quantity, UnitPrice: unitPrice})
	return b
}

func (b *OrderBuilder) WithPaymentMethod(method string) *OrderBuilder {
	b.PaymentMethod = method
	return b
}

// Build methods
func (b *OrderBuilder) BuildItems() ([]domorder.Item, error) {
	items := make([]domorder.Item, 0, len(b.Items))
	for _, is := range b.Items {
		price, err := money.New(decimal.RequireFromString(is.UnitPrice), b.Currency)
		if err != nil {
			return nil, err
		}
		item, err := domorder.NewItem(is.ProductID, is.Location, is.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (b *OrderBuilder) BuildDomain() (*domorder.Order, error) {
	items, err := b.BuildItems()
	if err != nil {
		return nil, err
	}
	return domorder.NewOrder(b.UserID, b.IdempotencyKey, items, b.Currency, b.PaymentMethod, b.CreatedAt)
}

func (b *OrderBuilder) MustBuild() *domorder.Order {
	o, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return o
}

// BuildInStatus returns an order already advanced to status, as if loaded from storage.
func (b *OrderBuilder) BuildInStatus(status domorder.Status) *domorder.Order {
	snap := b.MustBuild().Snapshot()
	snap.Status = status
	return domorder.Reconstruct(snap)
}

func (b *OrderBuilder) BuildPlaceOrderRequest() reqdto.PlaceOrderRequest {
	req := reqdto.PlaceOrderRequest{
		UserID:        b.UserID,
		Currency:      b.Currency,
		PaymentMethod: b.PaymentMethod,
	}
	for _, is := range b.Items {
		req.Items = append(req.Items, reqdto.PlaceOrderItemIn{
			ProductID: is.ProductID,
			Location:  is.Location,
			Quantity:  is.Quantity,
			UnitPrice: decimal.RequireFromString(is.UnitPrice),
		})
	}
	return req
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	return queries.NewOrderView(b.MustBuild())
}
