package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.env)
		if got := levelFromEnv(); got != tt.want {
			t.Errorf("LOG_LEVEL=%q: expected %v, got %v", tt.env, tt.want, got)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	handler, closer := newHandler(&buf, Options{Level: slog.LevelInfo, Format: "json"})
	defer closer.Close()

	logger := slog.New(handler)
	logger.Debug("hidden")
	logger.Info("Group created", "group_id", "g1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if record["group_id"] != "g1" {
		t.Errorf("expected group_id g1, got %v", record["group_id"])
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bonus.log")
	var console bytes.Buffer
	handler, closer := newHandler(&console, Options{Level: slog.LevelInfo, File: path})

	slog.New(handler).With("customer_id", "c1").Info("Bonus group redeemed")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	if !strings.Contains(console.String(), "Bonus group redeemed") {
		t.Errorf("expected console output, got %q", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"customer_id":"c1"`) {
		t.Errorf("expected JSON record in file, got %q", data)
	}
}
