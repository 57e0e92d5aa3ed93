package espn

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var espnTracer = otel.Tracer("usopen-scoreboard/external/espn")

// startSpan only opens a child span when the caller is already traced.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return espnTracer.Start(ctx, name)
}
