package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("football-etl/internal/usecase")

// startUsecaseSpan opens a child span only when ctx already carries one, so
// unit tests and untraced callers produce no orphan roots.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if parent := trace.SpanFromContext(ctx); !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name)
}

// endSpan records err on span before ending it. Use with a named error
// return: defer func() { endSpan(span, err) }().
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
