package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line is not valid JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew(t *testing.T) {
	t.Run("writes JSON to the configured file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "logs", "remedy.log")

		logger, err := New(Options{Level: LevelDebug, File: logPath})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.Info("plan generated", "tasks", 3)
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		entries := decodeLines(t, content)
		if len(entries) != 1 || entries[0]["msg"] != "plan generated" || entries[0]["tasks"] != float64(3) {
			t.Errorf("entries = %v", entries)
		}
	})

	t.Run("writes text to stderr without a file", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: LevelInfo, Stderr: &buf})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		defer logger.Close()

		logger.Info("loaded input", "issues", 12)
		out := buf.String()
		if !strings.Contains(out, "msg=\"loaded input\"") || !strings.Contains(out, "issues=12") {
			t.Errorf("text output = %q", out)
		}
	})
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (WARN and ERROR only), got %d", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}
	if logger.Enabled(LevelInfo) {
		t.Error("Enabled(INFO) = true at WARN level")
	}
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, LevelInfo)

	child := logger.WithCommand("plan").WithInput("scan.json").With("format", "yaml", 42, "skipped")
	child.Info("rendered", "bytes", 100)
	logger.Info("parent")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	got := entries[0]
	for key, want := range map[string]any{"command": "plan", "input": "scan.json", "format": "yaml", "bytes": float64(100)} {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}
	if _, ok := entries[1]["input"]; ok {
		t.Error("child attributes leaked into the parent logger")
	}
}

func TestWithRequest(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, LevelInfo).WithRequest("req-1").Info("handled")

	entries := decodeLines(t, buf.Bytes())
	if entries[0]["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entries[0]["request_id"])
	}
}

func TestWith_NoArgsReturnsSameLogger(t *testing.T) {
	logger := NopLogger()
	if logger.With() != logger {
		t.Error("With() without args should return the receiver")
	}
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, LevelInfo).WithInput("a.yaml").Slog().Info("via slog")

	entries := decodeLines(t, buf.Bytes())
	if entries[0]["input"] != "a.yaml" {
		t.Errorf("input = %v", entries[0]["input"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if len(ValidLevels()) != 4 {
		t.Errorf("ValidLevels() = %v", ValidLevels())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
