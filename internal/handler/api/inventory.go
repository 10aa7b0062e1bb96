package api

import (
	"context"
	"net/http"

	reqdto "order-fulfillment/internal/handler/dto/request"
	resdto "order-fulfillment/internal/handler/dto/response"
	"order-fulfillment/internal/handler/httperr"
	"order-fulfillment/internal/usecase/commands"
	"order-fulfillment/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	cmds commands.InventoryCommands
	q    queries.StockQueries
}

func NewInventoryHandler(cmds commands.InventoryCommands, q queries.StockQueries) *InventoryHandler {
	return &InventoryHandler{cmds: cmds, q: q}
}

// @Summary List low stock
// @Description Records whose available stock is at or below their reorder point
// @Tags inventory
// @Produce json
// @Param location query string false "Location"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.StockListResponse
// @Router /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	h.list(c, h.q.ListLowStock)
}

// @Summary List out of stock
// @Tags inventory
// @Produce json
// @Param location query string false "Location"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.StockListResponse
// @Router /inventory/out-of-stock [get]
func (h *InventoryHandler) ListOutOfStock(c *gin.Context) {
	h.list(c, h.q.ListOutOfStock)
}

func (h *InventoryHandler) list(c *gin.Context, fetch func(ctx context.Context, f queries.StockFilters) (*queries.StockListView, error)) {
	var q reqdto.StockListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	view, err := fetch(c.Request.Context(), queries.StockFilters{Location: q.Location, Page: q.Page, Limit: q.Limit})
	if err != nil {
		httperr.AbortClassified(c, err, "Failed to list stock")
		return
	}
	c.JSON(http.StatusOK, resdto.FromStockListView(view))
}

// @Summary Record stock movement
// @Description Restock, damage, sale or signed adjustment against one inventory record
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Inventory record ID"
// @Param request body reqdto.StockMovementRequest true "Movement"
// @Success 201 {object} resdto.StockMovementResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /inventory/{id}/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.StockMovementRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	view, err := h.cmds.RecordMovement(c.Request.Context(), id, req)
	if err != nil {
		httperr.AbortClassified(c, err, "Stock movement rejected")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromStockMovementView(view))
}
