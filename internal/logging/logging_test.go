package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v; wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestInitLoggerToRespectsLevel(t *testing.T) {
	oldLogger := defaultLogger
	defer func() { defaultLogger = oldLogger }()

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelWarn, FormatJSON)

	Info("should be filtered")
	Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing from output")
	}
}

func TestInitLoggerToTimestampFormat(t *testing.T) {
	oldLogger := defaultLogger
	defer func() { defaultLogger = oldLogger }()

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelInfo, FormatJSON)
	Info("stamp check")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	stamp, ok := rec["time"].(string)
	if !ok {
		t.Fatalf("no time field in %v", rec)
	}
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("time %q is not RFC3339: %v", stamp, err)
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	if id := GetRunID(ctx); id != "" {
		t.Errorf("GetRunID on empty context = %q; want empty", id)
	}

	ctx = WithRunID(ctx, "run-42")
	if id := GetRunID(ctx); id != "run-42" {
		t.Errorf("GetRunID = %q; want run-42", id)
	}
}

func TestLoggerFromContextAttachesRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-42")

	out := captureLogOutput(func() {
		InfoContext(ctx, "resolving")
	})
	if !strings.Contains(out, `"run_id":"run-42"`) {
		t.Errorf("run_id missing from output: %s", out)
	}
}

func TestProgramLoaded(t *testing.T) {
	out := captureLogOutput(func() {
		ProgramLoaded(context.Background(), "user", "/schemas/user.tidl", true, 3*time.Millisecond)
	})
	for _, want := range []string{"program_loaded", `"program":"user"`, `"cached":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestResolveFailed(t *testing.T) {
	out := captureLogOutput(func() {
		ResolveFailed(context.Background(), "missing", []string{"a", "b"}, errors.New("not found"))
	})
	for _, want := range []string{"resolve_failed", `"ref":"missing"`, "not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}
