package telemetry_test

import (
	"testing"

	"github.com/nikolayk812/cart-checkout/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := telemetry.InitTracer(t.Context(), "", "cart-checkout")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	_, span := telemetry.Tracer().Start(t.Context(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}
