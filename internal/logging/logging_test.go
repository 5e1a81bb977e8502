package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("%s: expected %v, got %v (%v)", tt.in, tt.want, got, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.in)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup(&buf, "info", "json")
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	log.Debug("hidden")
	log.Info("sweep complete", "points", 25)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d", len(lines))
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["msg"] != "sweep complete" || rec["points"] != float64(25) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup(&buf, "debug", "text")
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	log.Debug("sweep point", "bins", 10)
	if !strings.Contains(buf.String(), "bins=10") {
		t.Errorf("expected text attrs, got %q", buf.String())
	}
}

func TestSetupRejectsFormat(t *testing.T) {
	if _, err := Setup(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
