package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/propagation"
)

// Environment variables carrying W3C trace context into the process, as
// set by CI systems and wrapper scripts.
const (
	EnvTraceParent = "TRACEPARENT"
	EnvTraceState  = "TRACESTATE"
	EnvBaggage     = "BAGGAGE"
)

var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// FromEnv returns ctx carrying the remote span context found in the
// TRACEPARENT and TRACESTATE variables, so that compile spans join the
// caller's trace. Without them ctx is returned unchanged.
func FromEnv(ctx context.Context) context.Context {
	return Extract(ctx, map[string]string{
		"traceparent": os.Getenv(EnvTraceParent),
		"tracestate":  os.Getenv(EnvTraceState),
		"baggage":     os.Getenv(EnvBaggage),
	})
}

// Extract returns ctx carrying the span context encoded in carrier under
// the lower-case W3C keys.
func Extract(ctx context.Context, carrier map[string]string) context.Context {
	return propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// Inject encodes the span context of ctx under the W3C keys.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)
	return carrier
}
