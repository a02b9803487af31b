package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/nikolayk812/cart-checkout"

// Tracer is backed by the global provider, a noop until an SDK is installed.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
