package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("football-etl/internal/interfaces/httpapi")

// handlerSpan starts "httpapi.Handler.<name>" under the request span. Requests
// that otelhttp filtered out carry no span and get none here either.
func handlerSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, handlerSpanName(name))
}

func handlerSpanName(name string) string {
	return "httpapi.Handler." + name
}
