package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestHandlerSpan_SkipsWithoutParent(t *testing.T) {
	ctx := context.Background()
	got, span := handlerSpan(ctx, "GetLeagueTable")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a parent")
	}
}

func TestHandlerSpan_NestsUnderRequestSpan(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, parent := provider.Tracer("test").Start(context.Background(), "GET /v1/leagues/8/table")
	defer parent.End()

	_, span := handlerSpan(ctx, "GetLeagueTable")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.Equal(t, parent.SpanContext().TraceID(), span.SpanContext().TraceID())
	assert.Equal(t, "httpapi.Handler.GetLeagueTable", handlerSpanName("GetLeagueTable"))
}
