package observability

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

const logInstrumentation = "football-etl/internal/platform/logging"

// quietMessages are emitted per record or per probe and stay out of Uptrace.
var quietMessages = map[string]bool{
	"skip record without identity": true,
}

// otelLogMirror forwards log entries to the global OpenTelemetry logger
// provider that uptrace-go installs.
type otelLogMirror struct {
	logger otellog.Logger
}

func newOTelLogMirror(serviceVersion string) logging.Mirror {
	return otelLogMirror{
		logger: otelglobal.Logger(logInstrumentation, otellog.WithInstrumentationVersion(serviceVersion)),
	}
}

func (m otelLogMirror) Emit(ctx context.Context, entry zapcore.Entry, fields []zapcore.Field) {
	if isQuiet(entry.Message, fields) {
		return
	}
	severity := severityOf(entry.Level)
	if !m.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: entry.Message}) {
		return
	}

	var record otellog.Record
	record.SetTimestamp(entry.Time)
	record.SetObservedTimestamp(time.Now())
	record.SetSeverity(severity)
	record.SetSeverityText(entry.Level.CapitalString())
	record.SetEventName(entry.Message)
	record.SetBody(otellog.StringValue(entry.Message))
	record.AddAttributes(logAttributes(fields)...)
	m.logger.Emit(ctx, record)
}

func isQuiet(msg string, fields []zapcore.Field) bool {
	if quietMessages[msg] {
		return true
	}
	if msg != "http_request" {
		return false
	}
	for _, f := range fields {
		if f.Key == "http_path" && f.Type == zapcore.StringType {
			return f.String == "/healthz"
		}
	}
	return false
}

func severityOf(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

// logAttributes flattens fields through zap's map encoder. The verbose
// error keys zap adds for formattable errors carry stack traces and are
// dropped.
func logAttributes(fields []zapcore.Field) []otellog.KeyValue {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		if !strings.HasSuffix(key, "Verbose") {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	attrs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(enc.Fields[key])})
	}
	return attrs
}

func logValue(v any) otellog.Value {
	switch v := v.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case int32:
		return otellog.Int64Value(int64(v))
	case uint64:
		return otellog.StringValue(fmt.Sprint(v))
	case float64:
		return otellog.Float64Value(v)
	case float32:
		return otellog.Float64Value(float64(v))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case []byte:
		return otellog.BytesValue(slices.Clone(v))
	case []any:
		items := make([]otellog.Value, len(v))
		for i, item := range v {
			items[i] = logValue(item)
		}
		return otellog.SliceValue(items...)
	case map[string]any:
		return otellog.MapValue(mapAttributes(v)...)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}

func mapAttributes(m map[string]any) []otellog.KeyValue {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	kvs := make([]otellog.KeyValue, len(keys))
	for i, key := range keys {
		kvs[i] = otellog.KeyValue{Key: key, Value: logValue(m[key])}
	}
	return kvs
}
