// Package logger provides logging implementations for todotree runs.
//
// Diagnostics (unreadable files, skipped encodings, scan timings) go to a
// Logger, never to the report stream. Implementations are thread-safe so the
// scanner's workers may share one.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Level orders log messages from most to least verbose
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

var levelColors = [...]color.Attribute{color.FgHiBlack, color.FgCyan, color.FgBlue, color.FgYellow, color.FgRed}

func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts trace, debug, info, warn or error in any case.
// Anything else is LevelInfo.
func ParseLevel(name string) Level {
	name = strings.TrimSpace(name)
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i)
		}
	}
	return LevelInfo
}

// Logger receives diagnostics from a scan run.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogScanStart(root string, workers int)
	LogScanComplete(stats ScanStats)
}

// ScanStats summarizes one scan for LogScanComplete.
type ScanStats struct {
	FilesScanned int
	Items        int
	BytesRead    int64
	Warnings     int
	Duration     time.Duration
}

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines for messages at or
// above its level. Color is on when the writer is a terminal stdout/stderr.
type ConsoleLogger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger filtering at ParseLevel(logLevel).
// A nil writer discards everything.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		level:       ParseLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// SetColor overrides terminal detection, e.g. for --no-color.
func (cl *ConsoleLogger) SetColor(enabled bool) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.colorOutput = enabled
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// false when NO_COLOR is set or the stream is not a TTY
		return !color.NoColor
	}

	return false
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.log(LevelTrace, message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.log(LevelDebug, message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.log(LevelInfo, message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.log(LevelWarn, message) }
func (cl *ConsoleLogger) LogError(message string) { cl.log(LevelError, message) }

// LogScanStart logs the scan root and worker count at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] Scanning /path with 8 workers"
func (cl *ConsoleLogger) LogScanStart(root string, workers int) {
	noun := "workers"
	if workers == 1 {
		noun = "worker"
	}
	cl.log(LevelDebug, fmt.Sprintf("Scanning %s with %d %s", root, workers, noun))
}

// LogScanComplete logs scan totals at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] Scanned 12 files (34 kB) in 1s: 7 items, 2 warnings"
func (cl *ConsoleLogger) LogScanComplete(stats ScanStats) {
	msg := fmt.Sprintf("Scanned %d files (%s) in %s: %d items",
		stats.FilesScanned,
		humanize.Bytes(uint64(max(stats.BytesRead, 0))),
		formatDuration(stats.Duration),
		stats.Items,
	)
	if stats.Warnings > 0 {
		msg += fmt.Sprintf(", %d %s", stats.Warnings, plural(stats.Warnings, "warning"))
	}
	cl.log(LevelDebug, msg)
}

func (cl *ConsoleLogger) log(level Level, message string) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := level.String()
	if cl.colorOutput {
		c := color.New(levelColors[level])
		c.EnableColor()
		name = c.Sprint(name)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), name, message)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// formatDuration keeps milliseconds below one second and otherwise rounds to
// whole seconds, dropping zero trailing units ("1m", "1h30m").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	s := d.Round(time.Second).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)               {}
func (n *NoOpLogger) LogDebug(message string)               {}
func (n *NoOpLogger) LogInfo(message string)                {}
func (n *NoOpLogger) LogWarn(message string)                {}
func (n *NoOpLogger) LogError(message string)               {}
func (n *NoOpLogger) LogScanStart(root string, workers int) {}
func (n *NoOpLogger) LogScanComplete(stats ScanStats)       {}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)
