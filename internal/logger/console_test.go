package logger

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger == nil {
			t.Fatal("expected non-nil logger")
		}
		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.level != LevelInfo {
			t.Errorf("expected level %v, got %v", LevelInfo, logger.level)
		}
		if logger.colorOutput {
			t.Error("expected no color for a non-terminal writer")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		if logger == nil {
			t.Fatal("expected non-nil logger even with nil writer")
		}
		if logger.writer != nil {
			t.Error("expected nil writer")
		}
	})
}

var linePattern = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[(TRACE|DEBUG|INFO|WARN|ERROR)\] .+$`)

// TestLineFormat verifies every message is written as "[HH:MM:SS] [LEVEL] message".
func TestLineFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")

	logger.LogTrace("t")
	logger.LogWarn("failed to read src/a.go: permission denied")
	logger.LogScanStart("/proj", 1)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !linePattern.MatchString(line) {
			t.Errorf("line %q does not match %s", line, linePattern)
		}
	}
	if !strings.HasSuffix(lines[2], "Scanning /proj with 1 worker") {
		t.Errorf("unexpected scan start line %q", lines[2])
	}
}

func TestLogScanComplete(t *testing.T) {
	tests := []struct {
		name  string
		stats ScanStats
		want  string
	}{
		{
			name:  "no warnings",
			stats: ScanStats{FilesScanned: 12, Items: 7, BytesRead: 34000, Duration: 250 * time.Millisecond},
			want:  "Scanned 12 files (34 kB) in 250ms: 7 items",
		},
		{
			name:  "one warning",
			stats: ScanStats{FilesScanned: 1, Items: 0, BytesRead: 10, Warnings: 1, Duration: 2 * time.Second},
			want:  "Scanned 1 files (10 B) in 2s: 0 items, 1 warning",
		},
		{
			name:  "several warnings",
			stats: ScanStats{FilesScanned: 3, Items: 4, Warnings: 3, Duration: time.Minute},
			want:  "Scanned 3 files (0 B) in 1m: 4 items, 3 warnings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			NewConsoleLogger(buf, "debug").LogScanComplete(tt.stats)

			got := strings.TrimSuffix(buf.String(), "\n")
			if !strings.HasSuffix(got, "[DEBUG] "+tt.want) {
				t.Errorf("got %q, want suffix %q", got, tt.want)
			}
		})
	}
}

func TestSetColor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.SetColor(true)
	logger.LogWarn("colored")

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected escape codes after SetColor(true), got %q", buf.String())
	}

	buf.Reset()
	logger.SetColor(false)
	logger.LogWarn("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected plain output after SetColor(false), got %q", buf.String())
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := timestamp()

	// Verify format is HH:MM:SS (8 characters total with colons)
	if len(ts) != 8 {
		t.Errorf("expected timestamp length 8, got %d: %s", len(ts), ts)
	}

	if ts[2] != ':' || ts[5] != ':' {
		t.Errorf("expected colons at positions 2 and 5, got %s", ts)
	}

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		t.Errorf("expected 3 parts separated by colons, got %d", len(parts))
	}

	for i, part := range parts {
		if len(part) != 2 {
			t.Errorf("expected part %d to have length 2, got %d", i, len(part))
		}
		for _, ch := range part {
			if ch < '0' || ch > '9' {
				t.Errorf("expected digit in timestamp, got %c", ch)
			}
		}
	}
}

// TestConcurrentLogging verifies thread safety with concurrent logging.
func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	numGoroutines := 10
	wg := sync.WaitGroup{}
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(index int) {
			defer wg.Done()
			logger.LogWarn(fmt.Sprintf("skipping file-%d.bin", index))
		}(i)
	}

	wg.Wait()

	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != numGoroutines {
		t.Fatalf("expected %d lines, got %d", numGoroutines, len(lines))
	}

	// Verify no interleaving (every line intact, every message present)
	for _, line := range lines {
		if !linePattern.MatchString(line) {
			t.Errorf("corrupted line %q", line)
		}
	}
	for i := 0; i < numGoroutines; i++ {
		name := fmt.Sprintf("file-%d.bin", i)
		if !strings.Contains(output, name) {
			t.Errorf("expected output to contain %q", name)
		}
	}
}

// TestNilWriter verifies that nil writer is handled gracefully.
func TestNilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "trace")

	// These should not panic
	logger.LogError("e")
	logger.LogScanStart("/proj", 2)
	logger.LogScanComplete(ScanStats{FilesScanned: 1})
}

// TestDurationFormatting verifies duration formatting for various time ranges.
func TestDurationFormatting(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "zero", duration: 0, expected: "0ms"},
		{name: "milliseconds", duration: 42 * time.Millisecond, expected: "42ms"},
		{name: "5 seconds", duration: 5 * time.Second, expected: "5s"},
		{name: "30 seconds", duration: 30 * time.Second, expected: "30s"},
		{name: "1 minute", duration: 1 * time.Minute, expected: "1m"},
		{name: "1m30s", duration: 1*time.Minute + 30*time.Second, expected: "1m30s"},
		{name: "1 hour", duration: 1 * time.Hour, expected: "1h"},
		{name: "1h30m", duration: 1*time.Hour + 30*time.Minute, expected: "1h30m"},
		{name: "1h30m45s", duration: 1*time.Hour + 30*time.Minute + 45*time.Second, expected: "1h30m45s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestNoOpLogger verifies that NoOpLogger is a valid Logger implementation.
func TestNoOpLogger(t *testing.T) {
	var logger Logger = NewNoOpLogger()

	// Should not panic
	logger.LogTrace("x")
	logger.LogDebug("x")
	logger.LogInfo("x")
	logger.LogWarn("x")
	logger.LogError("x")
	logger.LogScanStart("/proj", 8)
	logger.LogScanComplete(ScanStats{})
}
