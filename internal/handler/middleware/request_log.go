package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderRequestID = "X-Request-ID"
	// HeaderUserID and HeaderUserRole are set by the upstream gateway and only logged.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	requestIDKey = "request_id"
)

// RequestLogger logs one line when a request starts and one when it completes.
// An incoming X-Request-ID is reused and echoed back.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = newRequestID(start)
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		attrs := requestAttrs(c, requestID)
		ctx := c.Request.Context()
		logger.LogAttrs(ctx, slog.LevelDebug, "Request started", attrs...)

		c.Next()

		status := c.Writer.Status()
		attrs = append(attrs,
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
		)
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("resource_id", id))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(ctx, levelFor(status), "Request completed", attrs...)
	}
}

func requestAttrs(c *gin.Context, requestID string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.String("client_ip", c.ClientIP()),
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
	}
	for header, key := range map[string]string{
		HeaderUserID:      "user_id",
		HeaderUserRole:    "role",
		"Idempotency-Key": "idempotency_key",
	} {
		if v := c.GetHeader(header); v != "" {
			attrs = append(attrs, slog.String(key, v))
		}
	}
	return attrs
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetRequestID returns the id RequestLogger assigned to the request.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func newRequestID(now time.Time) string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(now.UnixNano(), 36)
	}
	return now.UTC().Format("20060102T150405") + "-" + hex.EncodeToString(b)
}
