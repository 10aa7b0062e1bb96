package handler

import (
	"log/slog"
	"net/http"

	"order-fulfillment/internal/handler/api"
	"order-fulfillment/internal/handler/middleware"
	"order-fulfillment/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, orderHandler *api.OrderHandler, inventoryHandler *api.InventoryHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, orderHandler, inventoryHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, orderHandler *api.OrderHandler, inventoryHandler *api.InventoryHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup.Group("/orders"), []route{
			{Method: http.MethodPost, Path: "", Handler: orderHandler.PlaceOrder},
			{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: orderHandler.Cancel},
		})

		addRoutes(apiGroup.Group("/inventory"), []route{
			{Method: http.MethodGet, Path: "/low-stock", Handler: inventoryHandler.ListLowStock},
			{Method: http.MethodGet, Path: "/out-of-stock", Handler: inventoryHandler.ListOutOfStock},
			{Method: http.MethodPost, Path: "/:id/movements", Handler: inventoryHandler.RecordMovement},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		default:
			g.Handle(r.Method, r.Path, r.Handler)
		}
	}
}
