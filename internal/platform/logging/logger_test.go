package logging

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
		"INFO":    LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestLogger_WritesKeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Debug("dropped")
	logger.With("fixture_id", int64(19135003)).InfoContext(context.Background(), "fixture ingested", "written", 12, "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["fixture_id"] != int64(19135003) {
		t.Fatalf("unexpected fixture_id field: %v", fields["fixture_id"])
	}
	if fields["written"] != int64(12) {
		t.Fatalf("unexpected written field: %v", fields["written"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected key without value to be kept")
	}
	if _, ok := fields["trace_id"]; ok {
		t.Fatalf("did not expect trace_id without a span")
	}
}

type recordingMirror struct {
	mu      sync.Mutex
	entries []string
	fields  []map[string]any
}

func (m *recordingMirror) Emit(_ context.Context, entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry.Level.String()+":"+entry.Message)
	m.fields = append(m.fields, enc.Fields)
}

// Not parallel: the mirror is process-wide.
func TestLogger_MirrorReceivesEnabledEntries(t *testing.T) {
	rec := &recordingMirror{}
	SetMirror(rec)
	t.Cleanup(func() { SetMirror(nil) })

	core, _ := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(core)).With("entity", "fixtures")
	logger.Info("below level")
	logger.WarnContext(context.Background(), "batch failure", "fixture_id", int64(9002))
	logger.Error("batch aborted")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.entries) != 2 || rec.entries[0] != "warn:batch failure" || rec.entries[1] != "error:batch aborted" {
		t.Fatalf("unexpected mirrored entries: %v", rec.entries)
	}
	if rec.fields[0]["entity"] != "fixtures" || rec.fields[0]["fixture_id"] != int64(9002) {
		t.Fatalf("expected bound and call fields in mirror, got %v", rec.fields[0])
	}
}

func TestNew_ConsoleFormatWritesToOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatConsole, Output: &buf})
	logger.Info("sync finished", "written", 3)

	out := buf.String()
	if !strings.Contains(out, "sync finished") || !strings.Contains(out, `"written": 3`) {
		t.Fatalf("unexpected console output: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console encoding, got JSON: %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})
	logger.Info("dropped")
	logger.Warn("rate limited", "wait", "61s")

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 || !strings.HasPrefix(out, "{") {
		t.Fatalf("expected a single JSON line, got %q", out)
	}
	if !strings.Contains(out, `"msg":"rate limited"`) || !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("unexpected JSON output: %q", out)
	}
}
