package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.Level())
	}

	if logger.config.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatJSON {
		t.Errorf("expected default format JSON, got %v", logger.Format())
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_ReportsLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace))

	if !logger.Tracing(t.Context()) {
		t.Fatal("expected tracing enabled at trace level")
	}

	logger.TraceContext(t.Context(), "emit", Cell(2, 3), Extent(1, 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", rec["level"])
	}

	cell, ok := rec["cell"].(map[string]any)
	if !ok {
		t.Fatalf("expected cell group, got %v", rec["cell"])
	}

	if cell["row"] != float64(2) || cell["col"] != float64(3) {
		t.Errorf("expected cell row=2 col=3, got %v", cell)
	}
}

func TestLogger_Tracing_DisabledAtInfo(t *testing.T) {
	logger := Make(nil)
	if logger.Tracing(t.Context()) {
		t.Error("expected tracing disabled at default level")
	}

	var zero Logger
	if zero.Tracing(t.Context()) {
		t.Error("expected tracing disabled for zero logger")
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	// must not panic
	logger.Info("nothing")
	logger.ErrorContext(t.Context(), "nothing", slog.Int("n", 1))

	if logger.With(slog.String("k", "v")).Logger != nil {
		t.Error("expected With on zero logger to stay zero")
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(Path("sheet", "table"))
	logger.Info("start")

	if !strings.Contains(buf.String(), `"path":"sheet/table"`) {
		t.Errorf("expected path attribute, got %s", buf.String())
	}
}

func TestLogger_Wrap_OverridesConfig(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf)
	wrapped := base.Wrap(WithFormat(FormatText), WithTimeLayout("none"))

	wrapped.Info("hello", slog.String("k", "v"))

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("expected text output, got %s", out)
	}

	if strings.Contains(out, "time=") {
		t.Errorf("expected no timestamp, got %s", out)
	}

	if base.Format() != FormatJSON {
		t.Error("expected Wrap to leave the original logger unchanged")
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected source to reference this file, got %s", buf.String())
	}
}

func TestErr_NilIsEmpty(t *testing.T) {
	if !Err(nil).Equal(slog.Attr{}) {
		t.Error("expected empty attribute for nil error")
	}
}

func TestPackageDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(Make(&buf))
	Config(WithLevel(LevelWarn))

	Info("dropped")
	WarnContext(t.Context(), "kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("expected info message to be filtered")
	}

	if !strings.Contains(buf.String(), "kept") {
		t.Error("expected warn message to be written")
	}
}
