package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closeFn()

	Component(logger, "carousel").Info("transition settled", "slide", 2, "title", "STAY CENTRAL", "error", errors.New("boom"))

	line := buf.String()
	for _, want := range []string{" INFO ", "carousel: transition settled", "slide=2", `title="STAY CENTRAL"`, "error=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("line %q should fold component into prefix", line)
	}
}

func TestNew_JSONFormatToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, closeFn, err := New(Options{Level: "info", Format: "json", Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Warn("playback failed", "slide", 1)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), data)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if record["level"] != "warn" || record["msg"] != "playback failed" {
		t.Fatalf("record = %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("record missing ts: %v", record)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, _, err := New(Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("New(xml) returned nil error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
