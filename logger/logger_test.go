package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithWriter(&Config{Level: level, Format: "json"}, "test", &buf), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := jsonLogger("invalid-level")
	l.Debug("hidden")
	l.Info("shown")

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Fatalf("expected only the info line, got %v", lines)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := jsonLogger("warn")
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v", lines)
	}
	if l.Enabled(zerolog.InfoLevel) {
		t.Error("info must not be enabled at warn level")
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := jsonLogger("debug")
	l.WithComponent(ComponentPlanner).
		WithFields(VertexFields("Core", "Project")).
		Info("resolved", Fields(FieldCount, 3))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got[FieldComponent] != ComponentPlanner {
		t.Errorf("expected component %q, got %v", ComponentPlanner, got[FieldComponent])
	}
	if got[FieldVertex] != "Core" || got[FieldKind] != "Project" {
		t.Errorf("unexpected vertex fields: %v", got)
	}
	if got[FieldCount] != float64(3) {
		t.Errorf("expected count 3, got %v", got[FieldCount])
	}
}

func TestWithError(t *testing.T) {
	l, buf := jsonLogger("debug")
	l.WithError(errors.New("boom")).Error("failed")

	lines := decodeLines(t, buf)
	if lines[0]["error"] != "boom" {
		t.Errorf("expected error field, got %v", lines[0])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := jsonLogger("debug")

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger without an active span")
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.WithContext(ctx).Info("traced")
	lines := decodeLines(t, buf)
	if lines[0][FieldTraceID] != traceID.String() || lines[0][FieldSpanID] != spanID.String() {
		t.Errorf("expected trace and span IDs, got %v", lines[0])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger must be disabled")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "buildplan", &buf)
	l.Warn("slow phase", Fields(FieldPhase, "sort"))

	out := buf.String()
	for _, want := range []string{"[buildplan][WRN]", "slow phase", "phase:sort"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestInitAndGlobal(t *testing.T) {
	defer SetGlobalLogger(nil)

	Init(Config{Level: "debug", Format: "json"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger after Init")
	}

	custom := Nop()
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("expected SetGlobalLogger to replace the global logger")
	}
	// These should not panic.
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	_ = WithComponent("x")
}

func TestRegistry(t *testing.T) {
	defer SetGlobalLogger(nil)
	SetGlobalLogger(Nop())

	l := Nop()
	Register("custom", l)
	if Get("custom") != l {
		t.Error("expected Get to return the registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected a component logger for an unregistered name")
	}

	RegisterDefaults()
	for _, name := range []string{ComponentPlanner, ComponentManifest, ComponentServer, ComponentCLI} {
		if Get(name) == nil {
			t.Errorf("expected logger for %q", name)
		}
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	cfg = Config{Level: "debug", Format: "json", Output: "stdout"}
	cfg.ApplyDefaults()
	if cfg.Level != "debug" || cfg.Format != "json" || cfg.Output != "stdout" {
		t.Errorf("explicit values must be kept: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, ""},
		{"pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, ""},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, "logging.level"},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, "logging.format"},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, "logging.output"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(f) != 2 || f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields: %v", f)
	}

	p := PhaseFields("sort", 1500*time.Millisecond)
	if p[FieldPhase] != "sort" || p[FieldDuration] != int64(1500) {
		t.Errorf("unexpected phase fields: %v", p)
	}

	e := ErrorFields("resolve", errors.New("bad"))
	if e[FieldError] != "bad" {
		t.Errorf("unexpected error fields: %v", e)
	}

	m := MergeWithError(nil, errors.New("x"))
	if m[FieldError] != "x" {
		t.Errorf("unexpected merged fields: %v", m)
	}
}
