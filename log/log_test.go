package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMake_DefaultConfiguration(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}
}

func TestZeroLogger_Discards(t *testing.T) {
	var logger Logger

	logger.Error("nothing")
	logger.With(slog.String("k", "v")).Info("nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}
}

func TestMake_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace))
	logger.Trace("trace message")

	if !strings.Contains(buf.String(), "trace message") {
		t.Error("trace message not logged at trace level")
	}

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE level name, got: %s", buf.String())
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestMake_WithFormatJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Info("hello", slog.Int("count", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["msg"] != "hello" {
		t.Errorf("msg = %v", rec["msg"])
	}

	if rec["count"] != float64(2) {
		t.Errorf("count = %v", rec["count"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestMake_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339 named", "RFC3339", "T"},
		{"kitchen named", "kitchen", "M "},
		{"punctuation ignored", "Date-Time", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithTimeLayout(tt.layout)).Info("test")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestMake_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true)).Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output: %s", buf.String())
	}
}

func TestLogger_Wrap_OverridesBase(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelWarn {
		t.Errorf("base level changed to %v", base.Level())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not log at debug level")
	}
}

func TestLogger_With_AddsAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("run_id", "abc"))
	logger.Info("go")

	if !strings.Contains(buf.String(), "run_id=abc") {
		t.Errorf("missing attr in output: %s", buf.String())
	}
}

func TestPretty_TextOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none")).
		With(slog.String("node", "build")).
		WithGroup("shell")
	logger.Info("exec", slog.String("cmd", "echo hi"), slog.Bool("ok", true))

	out := buf.String()
	for _, want := range []string{"INFO", "exec", "node", "build", "shell.cmd", "echo hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output: %q", want, out)
		}
	}

	if strings.Contains(out, `"echo hi"`) {
		t.Errorf("pretty output quoted a string: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(slog.LevelInfo + 2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		in   Level
		want string
	}{
		{LevelTrace, "trace"},
		{LevelInfo, "info"},
		{LevelError, "error"},
		{Level(slog.LevelInfo + 2), "info+2"},
		{LevelTrace - 1, "trace-1"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("ParseFormat(JSON) != FormatJSON")
	}

	if ParseFormat("text") != FormatText {
		t.Error("ParseFormat(text) != FormatText")
	}

	if ParseFormat("yaml") != DefaultFormat {
		t.Error("unknown format did not fall back to default")
	}
}

func TestLevelsAndFormats(t *testing.T) {
	var levels []string
	for name := range Levels() {
		levels = append(levels, name)
	}

	if strings.Join(levels, ",") != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %v", levels)
	}

	var formats []string
	for name := range Formats() {
		formats = append(formats, name)
	}

	if strings.Join(formats, ",") != "text,json" {
		t.Errorf("Formats() = %v", formats)
	}
}

func TestConfig_UpdatesDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug))
	Debug("through default")

	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("default logger did not write: %q", buf.String())
	}
}
