package api

import (
	"net/http"

	reqdto "order-fulfillment/internal/handler/dto/request"
	resdto "order-fulfillment/internal/handler/dto/response"
	"order-fulfillment/internal/handler/httperr"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/commands"
	"order-fulfillment/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotencyReplayed = "Idempotency-Replayed"
)

type OrderHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q}
}

// @Summary Place order
// @Description Accept an order and schedule its fulfillment saga. Replays with the same key return the original order.
// @Tags orders
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client idempotency key"
// @Param request body reqdto.PlaceOrderRequest true "Place order request"
// @Success 201 {object} resdto.OrderResponse
// @Success 200 {object} resdto.OrderResponse "replayed"
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	key := c.GetHeader(HeaderIdempotencyKey)
	if key == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("missing idempotency key"), "Idempotency-Key header is required", nil)
		return
	}
	var req reqdto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	result, err := h.cmds.PlaceOrder(c.Request.Context(), req, key)
	if err != nil {
		httperr.AbortClassified(c, err, "Place order failed")
		return
	}
	if result.IsReplayed {
		c.Header(HeaderIdempotencyReplayed, "true")
		c.JSON(http.StatusOK, resdto.FromOrderView(result.Order))
		return
	}
	c.Header("Location", "/api/orders/"+result.Order.ID.String())
	c.JSON(http.StatusCreated, resdto.FromOrderView(result.Order))
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetOrder(c.Request.Context(), id)
	if err != nil {
		httperr.AbortClassified(c, err, "Not found")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Cancel order
// @Description Cancel an order that has not started payment. Cancelling a cancelled order returns it unchanged.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.cmds.CancelOrder(c.Request.Context(), id)
	if err != nil {
		httperr.AbortClassified(c, err, "Cancel failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}
