package observability

import (
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestIsQuiet(t *testing.T) {
	t.Parallel()

	if !isQuiet("http_request", []zapcore.Field{zap.String("http_path", "/healthz")}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isQuiet("http_request", []zapcore.Field{zap.String("http_path", "/v1/leagues/8/table")}) {
		t.Fatalf("did not expect report request to be skipped")
	}
	if isQuiet("fixture ingested", []zapcore.Field{zap.String("http_path", "/healthz")}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
	if !isQuiet("skip record without identity", []zapcore.Field{zap.String("entity", "events")}) {
		t.Fatalf("expected per-record skip log to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := logAttributes([]zapcore.Field{
		zap.String("entity", "fixture_events"),
		zap.Int("attempt", 2),
		zap.Duration("wait", 61*time.Second),
		zap.NamedError("error", crerr.New("provider status=503")),
		zap.Any("payload", nil),
	})

	byKey := make(map[string]otellog.Value, len(attrs))
	for _, kv := range attrs {
		byKey[kv.Key] = kv.Value
	}
	require.Len(t, byKey, 5, "verbose error keys are dropped")
	assert.Equal(t, "fixture_events", byKey["entity"].AsString())
	assert.Equal(t, int64(2), byKey["attempt"].AsInt64())
	assert.Equal(t, "1m1s", byKey["wait"].AsString())
	assert.Equal(t, "provider status=503", byKey["error"].AsString())
	assert.Equal(t, otellog.KindEmpty, byKey["payload"].Kind())
}

func TestLogValue_NestedMap(t *testing.T) {
	t.Parallel()

	v := logValue(map[string]any{
		"written": int64(11),
		"kinds":   []any{"leagues", "teams"},
	})
	require.Equal(t, otellog.KindMap, v.Kind())

	items := v.AsMap()
	require.Len(t, items, 2)
	assert.Equal(t, "kinds", items[0].Key)
	assert.Equal(t, otellog.KindSlice, items[0].Value.Kind())
	assert.Equal(t, int64(11), items[1].Value.AsInt64())
}

func TestSeverityOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, otellog.SeverityDebug, severityOf(zapcore.DebugLevel))
	assert.Equal(t, otellog.SeverityWarn, severityOf(zapcore.WarnLevel))
	assert.Equal(t, otellog.SeverityError, severityOf(zapcore.ErrorLevel))
	assert.Equal(t, otellog.SeverityFatal, severityOf(zapcore.FatalLevel))
}
