//go:build unit

package repository_test

import (
	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/order"
)

func moneyEqual(a, b money.Money) bool { return a.Equal(b) }

func itemEqual(a, b order.Item) bool {
	return a.ProductID() == b.ProductID() &&
		a.Location() == b.Location() &&
		a.Quantity() == b.Quantity() &&
		a.UnitPrice().Equal(b.UnitPrice())
}
