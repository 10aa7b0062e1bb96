package middleware

import (
	"log/slog"
	"slices"

	"order-fulfillment/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Headers browsers must be allowed to send or read for the order API to work.
var (
	requiredAllowHeaders  = []string{"Content-Type", "Idempotency-Key", HeaderRequestID}
	requiredExposeHeaders = []string{"Location", "Idempotency-Replayed", HeaderRequestID}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withRequired(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    withRequired(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS configured", "origins", corsCfg.AllowOrigins, "expose", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withRequired(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
