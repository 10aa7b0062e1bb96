package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"order-fulfillment/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the body for handlers that recorded a public error
// without writing a response themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if public := c.Errors.ByType(gin.ErrorTypePublic).Last(); public != nil {
			if resp, ok := public.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		// A bare status set via c.Status is flushed as is; a handler that wrote
		// nothing at all is a bug.
		if c.Writer.Status() != http.StatusOK {
			c.Writer.WriteHeaderNow()
			return
		}
		writeInternal(c)
	}
}

// CustomRecovery turns a panic into a 500 with the standard error body.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "Recovered from panic",
					"panic", r,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", string(debug.Stack()),
				)
				writeInternal(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func writeInternal(c *gin.Context) {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	c.JSON(resp.Status, resp)
}
