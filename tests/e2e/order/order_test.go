//go:build e2e

package order_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"order-fulfillment/internal/handler/dto/request"
	"order-fulfillment/internal/handler/dto/response"
	"order-fulfillment/tests/common/builder"
	"order-fulfillment/tests/common/dbtest"
	"order-fulfillment/tests/common/httptest"
	"order-fulfillment/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	ordersURL      = "/api/orders"
	orderURL       = "/api/orders/%s"
	cancelURL      = "/api/orders/%s/cancel"
	movementsURL   = "/api/inventory/%s/movements"
	lowStockURL    = "/api/inventory/low-stock"
	outOfStockURL  = "/api/inventory/out-of-stock"
	settleTimeout  = 5 * time.Second
	settlePollTick = 20 * time.Millisecond
)

type OrderSuite struct {
	e2e.SharedSuite
}

func (s *OrderSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestOrderSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrderSuite))
}

func (s *OrderSuite) placeOrder(key string, req request.PlaceOrderRequest) response.OrderResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, req, httptest.WithIdempotencyKey(key))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.OrderResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

// waitForStatus polls the API until the order reaches a terminal status.
func (s *OrderSuite) waitForStatus(id uuid.UUID, want string) response.OrderResponse {
	t := s.T()
	var res response.OrderResponse
	require.Eventually(t, func() bool {
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(orderURL, id), nil, nil)
		if w.Code != http.StatusOK {
			return false
		}
		res = response.OrderResponse{}
		_ = httptest.DecodeResponseBody(t, w.Body, &res)
		return res.Status == want
	}, settleTimeout, settlePollTick, "order %s never reached %s (last %s)", id, want, res.Status)
	return res
}

// =============================================================================
// TestPlaceOrder - saga runs end to end through the queue
// =============================================================================

func (s *OrderSuite) TestPlaceOrder() {
	s.Run("Normal case: order is confirmed and stock is deducted", func() {
		t := s.T()
		a := dbtest.CreateInventoryRecord(t, s.DB, "main", 100, 10)
		b := dbtest.CreateInventoryRecord(t, s.DB, "main", 10, 2)

		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{
				{ProductID: a.ProductID, Location: "main", Quantity: 2, UnitPrice: "10.00"},
				{ProductID: b.ProductID, Location: "main", Quantity: 1, UnitPrice: "40.00"},
			}
		}).BuildPlaceOrderRequest()

		created := s.placeOrder("e2e-happy", req)
		require.Equal(t, "60.00", created.Total)

		got := s.waitForStatus(created.ID, "CONFIRMED")
		require.NotNil(t, got.PaymentID)
		require.Nil(t, got.FailureReason)

		require.Equal(t, 98, dbtest.GetStock(t, s.DB, a.ID).Physical)
		require.Equal(t, 9, dbtest.GetStock(t, s.DB, b.ID).Physical)
		require.Equal(t, 0, dbtest.GetStock(t, s.DB, a.ID).Reserved)
		require.Zero(t, dbtest.CountActiveReservations(t, s.DB, created.ID))

		// The relay drains every order event it was handed.
		require.Eventually(t, func() bool {
			total := dbtest.CountOutbox(t, s.DB, created.ID.String(), "")
			return total >= 2 && dbtest.CountOutbox(t, s.DB, created.ID.String(), "PROCESSED") == total
		}, settleTimeout, settlePollTick)
	})

	s.Run("Normal case: replay with the same key returns the original order", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 5, 0)
		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{{ProductID: rec.ProductID, Location: "main", Quantity: 1, UnitPrice: "9.99"}}
		}).BuildPlaceOrderRequest()

		created := s.placeOrder("e2e-replay", req)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, req, httptest.WithIdempotencyKey("e2e-replay"))
		require.Equal(t, http.StatusOK, w.Code)
		httptest.AssertHeaders(t, w, map[string]string{"Idempotency-Replayed": "true"})
		var replayed response.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &replayed))
		require.Equal(t, created.ID, replayed.ID)

		s.waitForStatus(created.ID, "CONFIRMED")
		require.Equal(t, 4, dbtest.GetStock(t, s.DB, rec.ID).Physical)
	})

	s.Run("Error case: insufficient stock fails without touching other lines", func() {
		t := s.T()
		plenty := dbtest.CreateInventoryRecord(t, s.DB, "main", 50, 0)
		scarce := dbtest.CreateInventoryRecord(t, s.DB, "main", 1, 0)
		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{
				{ProductID: plenty.ProductID, Location: "main", Quantity: 3, UnitPrice: "5.00"},
				{ProductID: scarce.ProductID, Location: "main", Quantity: 2, UnitPrice: "5.00"},
			}
		}).BuildPlaceOrderRequest()

		created := s.placeOrder("e2e-scarce", req)
		got := s.waitForStatus(created.ID, "FAILED")
		require.NotNil(t, got.FailureReason)
		require.Equal(t, "INSUFFICIENT_STOCK", *got.FailureReason)

		require.Equal(t, dbtest.StockRow{ID: plenty.ID, ProductID: plenty.ProductID, Location: "main", Physical: 50}, dbtest.GetStock(t, s.DB, plenty.ID))
		require.Zero(t, dbtest.CountActiveReservations(t, s.DB, created.ID))
	})

	s.Run("Error case: fraud rejection cancels without charging", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 10, 0)
		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{{ProductID: rec.ProductID, Location: "main", Quantity: 1, UnitPrice: "15000.00"}}
		}).BuildPlaceOrderRequest()

		created := s.placeOrder("e2e-fraud", req)
		got := s.waitForStatus(created.ID, "CANCELLED")
		require.Equal(t, "PAYMENT_DECLINED", *got.FailureReason)
		require.Nil(t, got.PaymentID)
		require.Equal(t, dbtest.StockRow{ID: rec.ID, ProductID: rec.ProductID, Location: "main", Physical: 10}, dbtest.GetStock(t, s.DB, rec.ID))
	})

	s.Run("Error case: key reused by another user", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 10, 0)
		b := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{{ProductID: rec.ProductID, Location: "main", Quantity: 1, UnitPrice: "1.00"}}
		})
		first := s.placeOrder("e2e-shared-key", b.BuildPlaceOrderRequest())

		other := b.BuildPlaceOrderRequest()
		other.UserID = uuid.New()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, other, httptest.WithIdempotencyKey("e2e-shared-key"))
		httptest.AssertErrorClass(t, w, http.StatusConflict, "CONFLICT")

		s.waitForStatus(first.ID, "CONFIRMED")
	})
}

// =============================================================================
// TestCancelOrder
// =============================================================================

func (s *OrderSuite) TestCancelOrder() {
	s.Run("Error case: confirmed order cannot be cancelled", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 10, 0)
		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{{ProductID: rec.ProductID, Location: "main", Quantity: 1, UnitPrice: "3.00"}}
		}).BuildPlaceOrderRequest()
		created := s.placeOrder("e2e-late-cancel", req)
		s.waitForStatus(created.ID, "CONFIRMED")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, created.ID), nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Cancel failed")
	})

	s.Run("Success case: cancelling a cancelled order returns it unchanged", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 10, 0)
		req := builder.NewOrderBuilder().With(func(ob *builder.OrderBuilder) {
			ob.Items = []builder.ItemSpec{{ProductID: rec.ProductID, Location: "main", Quantity: 1, UnitPrice: "15000.00"}}
		}).BuildPlaceOrderRequest()
		created := s.placeOrder("e2e-cancel-twice", req)
		s.waitForStatus(created.ID, "CANCELLED")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, created.ID), nil, nil)
		var res response.OrderResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "CANCELLED", res.Status)
		require.Equal(t, "PAYMENT_DECLINED", *res.FailureReason)
	})

	s.Run("Error case: unknown order", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(cancelURL, uuid.New()), nil, nil)
		httptest.AssertErrorClass(s.T(), w, http.StatusNotFound, "NOT_FOUND")
	})
}

// =============================================================================
// TestInventory - stock admin endpoints
// =============================================================================

func (s *OrderSuite) TestInventory() {
	s.Run("Normal case: movements adjust stock and feed the stock reports", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "east", 3, 5)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, lowStockURL+"?location=east", nil, nil)
		var low response.StockListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &low)
		require.Equal(t, 1, low.Total)
		require.Equal(t, rec.ID, low.Items[0].ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(movementsURL, rec.ID),
			request.StockMovementRequest{MovementType: "DAMAGE", Quantity: -3, Reason: "water damage"}, nil)
		var mv response.StockMovementResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &mv)
		require.Equal(t, 0, mv.ResultingPhysicalStock)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, outOfStockURL, nil, nil)
		var out response.StockListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &out)
		require.Equal(t, 1, out.Total)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(movementsURL, rec.ID),
			request.StockMovementRequest{MovementType: "RESTOCK", Quantity: 20}, nil)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &mv)
		require.Equal(t, 20, dbtest.GetStock(t, s.DB, rec.ID).Physical)
	})

	s.Run("Error case: removal below zero is rejected", func() {
		t := s.T()
		rec := dbtest.CreateInventoryRecord(t, s.DB, "main", 2, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(movementsURL, rec.ID),
			request.StockMovementRequest{MovementType: "SALE", Quantity: -5}, nil)
		httptest.AssertErrorClass(t, w, http.StatusUnprocessableEntity, "PERMANENT")
		require.Equal(t, 2, dbtest.GetStock(t, s.DB, rec.ID).Physical)
	})
}
