//go:build unit

package telemetry_test

import (
	"context"
	"testing"

	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetup_WithoutEndpointInstallsNoop(t *testing.T) {
	tp, shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, tp)
	defer func() { assert.NoError(t, shutdown(context.Background())) }()

	_, span := telemetry.Tracer(tp).Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(context.Background(), carrier)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}
