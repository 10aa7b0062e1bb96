//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/handler/api"
	reqdto "order-fulfillment/internal/handler/dto/request"
	resdto "order-fulfillment/internal/handler/dto/response"
	"order-fulfillment/internal/handler/middleware"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/commands"
	"order-fulfillment/internal/usecase/queries"
	"order-fulfillment/tests/common/builder"
	"order-fulfillment/tests/common/httptest"
	"order-fulfillment/tests/common/testutil"
	commandsmock "order-fulfillment/tests/mock/commands"
	queriesmock "order-fulfillment/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type InventoryHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockInventoryCommands
	mockQueries  *queriesmock.MockStockQueries
	handler      *api.InventoryHandler
}

func (s *InventoryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockInventoryCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockStockQueries(s.mockCtrl)
	s.handler = api.NewInventoryHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/inventory/low-stock", s.handler.ListLowStock)
	s.router.GET("/inventory/out-of-stock", s.handler.ListOutOfStock)
	s.router.POST("/inventory/:id/movements", s.handler.RecordMovement)
}

func (s *InventoryHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestInventoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(InventoryHandlerTestSuite))
}

// ================================================================================
// TestListStock
// ================================================================================

func (s *InventoryHandlerTestSuite) TestListStock() {
	rec := builder.NewInventoryBuilder().WithStock(4, 4).BuildDomain()
	list := &queries.StockListView{Items: []*queries.StockView{queries.NewStockView(rec)}, Page: 2, Limit: 5, Total: 6}

	s.Run("success: low stock passes filters through", func() {
		s.mockQueries.EXPECT().ListLowStock(gomock.Any(), queries.StockFilters{Location: "east", Page: 2, Limit: 5}).
			Return(list, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/inventory/low-stock?location=east&page=2&limit=5", nil, nil)

		var res resdto.StockListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
		s.Equal(6, res.Total)
		s.Equal(2, res.Page)
		s.Require().Len(res.Items, 1)
		s.Equal(rec.ID(), res.Items[0].ID)
		s.Equal(0, res.Items[0].AvailableStock)
		s.Equal(4, res.Items[0].ReservedStock)
	})

	s.Run("success: out of stock with defaults", func() {
		s.mockQueries.EXPECT().ListOutOfStock(gomock.Any(), queries.StockFilters{}).
			Return(&queries.StockListView{Page: 1, Limit: 20}, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/inventory/out-of-stock", nil, nil)

		var res resdto.StockListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
		s.Empty(res.Items)
		s.Contains(w.Body.String(), `"items":[]`)
	})

	invalid := []string{"limit=201", "page=-1", "limit=abc"}
	for _, q := range invalid {
		s.Run("validation: "+q, func() {
			w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/inventory/low-stock?"+q, nil, nil)
			httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid query")
		})
	}

	s.Run("error: storage failure hides details", func() {
		s.mockQueries.EXPECT().ListLowStock(gomock.Any(), gomock.Any()).
			Return(nil, errs.New("pool closed")).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/inventory/low-stock", nil, nil)

		httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestRecordMovement
// ================================================================================

func (s *InventoryHandlerTestSuite) TestRecordMovement() {
	rec := builder.NewInventoryBuilder().WithStock(40, 0).BuildDomain()
	url := "/inventory/" + rec.ID().String() + "/movements"
	reqBody := reqdto.StockMovementRequest{MovementType: "RESTOCK", Quantity: 10, Reason: "delivery"}
	movement := inventory.NewStockMovement(rec, inventory.MovementRestock, 10, "delivery", rec.UpdatedAt())

	validation := []struct {
		name   string
		mutate testutil.Mutation
	}{
		{name: "unknown movement type", mutate: testutil.Field("movement_type", "GIFT")},
		{name: "missing movement type", mutate: testutil.Field("movement_type", nil)},
		{name: "zero quantity", mutate: testutil.Field("quantity", 0)},
	}

	s.Run("success: returns 201 with the movement", func() {
		s.mockCommands.EXPECT().RecordMovement(gomock.Any(), rec.ID(), reqBody).
			Return(queries.NewStockMovementView(movement), nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)

		var res resdto.StockMovementResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
		s.Equal(10, res.QuantityDelta)
		s.Equal("RESTOCK", res.MovementType)
		s.Equal(40, res.ResultingPhysicalStock)
	})

	for _, tc := range validation {
		s.Run("validation: "+tc.name, func() {
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), nil)
			httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request")
		})
	}

	errorCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "wrong direction", err: commands.ErrMovementDirection, expectCode: http.StatusBadRequest},
		{name: "unknown record", err: inventory.ErrRecordNotFound, expectCode: http.StatusNotFound},
		{name: "would drop below reserved", err: inventory.ErrNegativeStock, expectCode: http.StatusUnprocessableEntity},
	}
	for _, tc := range errorCases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().RecordMovement(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)

			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, "Stock movement rejected")
		})
	}

	s.Run("error: invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/inventory/not-a-uuid/movements", reqBody, nil)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id")
	})
}
