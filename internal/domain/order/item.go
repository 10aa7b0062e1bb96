package order

import (
	"order-fulfillment/internal/domain/money"

	"github.com/google/uuid"
)

type Item struct {
	productID uuid.UUID
	location  string
	quantity  int
	unitPrice money.Money
}

func NewItem(productID uuid.UUID, location string, quantity int, unitPrice money.Money) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidItemQuantity
	}
	if !unitPrice.IsPositive() {
		return Item{}, ErrInvalidUnitPrice
	}
	return Item{
		productID: productID,
		location:  location,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

func (i Item) ProductID() uuid.UUID    { return i.productID }
func (i Item) Location() string        { return i.location }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) UnitPrice() money.Money  { return i.unitPrice }
func (i Item) TotalPrice() money.Money { return i.unitPrice.Mul(i.quantity) }
