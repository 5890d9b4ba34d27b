package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	solverrors "github.com/YuminosukeSato/solvereg/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.With(ModelNameKey, "Ridge").Info("fit complete", SamplesKey, 12, AlphaKey, 0.5)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["message"] != "fit complete" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if lines[0][ModelNameKey] != "Ridge" {
		t.Errorf("%s = %v", ModelNameKey, lines[0][ModelNameKey])
	}
	if lines[0][SamplesKey] != 12.0 {
		t.Errorf("%s = %v", SamplesKey, lines[0][SamplesKey])
	}
}

func TestZerologLoggerErrorAttachesStack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	err := solverrors.NewValueError("Fit", "bad input")
	logger.Error("fit failed", err, OperationKey, OperationFit)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["error"] != "solvereg: Fit: bad input" {
		t.Errorf("error = %v", lines[0]["error"])
	}
	if lines[0][OperationKey] != OperationFit {
		t.Errorf("%s = %v", OperationKey, lines[0][OperationKey])
	}
	if _, ok := lines[0][StacktraceKey]; !ok {
		t.Error("expected a stack trace field")
	}
}

func TestZerologLoggerMarshalsTypedErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Error("predict failed", solverrors.NewDimensionError("Predict", 3, 2, 1))

	lines := decodeLines(t, &buf)
	detail, ok := lines[0]["error.detail"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured error detail, got %v", lines[0])
	}
	if detail["type"] != "DimensionError" {
		t.Errorf("detail type = %v", detail["type"])
	}
}

func TestZerologLoggerEnabled(t *testing.T) {
	logger := NewZerologLogger(zerolog.New(nil).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if logger.Enabled(ctx, LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}
	if Nop().Enabled(ctx, LevelError) {
		t.Error("Nop logger should not be enabled")
	}
}

func TestSetupJSONAndWarnHook(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	var buf bytes.Buffer
	if err := Setup("info", FormatJSON, &buf); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	GetLogger().Debug("hidden")
	solverrors.Warn(solverrors.NewMalformedLineWarning(3, "x", "too many separators"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected only the warning, got %d lines: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "warn" {
		t.Errorf("level = %v", lines[0]["level"])
	}
}

func TestSetupRejectsBadInput(t *testing.T) {
	if err := Setup("loud", FormatJSON, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Setup("info", "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ToLogLevel(tt.in)
		if err != nil {
			t.Errorf("ToLogLevel(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("dropped")
	testLogger.With(ComponentKey, "weka").Warn("skipped line", LineKey, 4)
	testLogger.Error("failed", fmt.Errorf("boom"), OperationKey, OperationParse)

	if buffer.Len() == 0 {
		t.Fatal("expected captured output")
	}
	if testLogger.ContainsMessage("dropped") {
		t.Error("debug message should be filtered")
	}
	if !testLogger.ContainsField(ComponentKey, "weka") {
		t.Error("expected component field from With")
	}
	if !testLogger.ContainsField(LineKey, 4.0) {
		t.Error("expected line field")
	}
	if !testLogger.ContainsField(ErrorKey, "boom") {
		t.Error("expected error field")
	}
	if got := testLogger.CountLevel("WARN"); got != 1 {
		t.Errorf("CountLevel(WARN) = %d, want 1", got)
	}

	testLogger.Clear()
	if buffer.Len() != 0 {
		t.Error("Clear should empty the buffer")
	}
}
