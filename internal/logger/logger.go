// Package logger provides leveled logging for ctxgen.
//
// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines to a writer,
// colored when the writer is a terminal. FileLogger appends the same lines
// to a timestamped run log. MultiLogger fans out to several loggers. All
// implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/models"
)

// Logger is the logging surface used by commands and the HTTP server.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	// LogScanComplete reports a finished directory scan at INFO level and
	// each unreadable subdirectory at DEBUG level.
	LogScanComplete(result *fileutil.ScanResult, duration time.Duration)

	// LogContextAssembled reports an assembled context at INFO level and
	// each placeholder entry at WARN level.
	LogContextAssembled(entries []models.ContextEntry, duration time.Duration)
}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders short durations in milliseconds and longer ones as
// 1m5s style strings.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func contextBytes(entries []models.ContextEntry) int {
	total := 0
	for _, e := range entries {
		total += len(e.Content)
	}
	return total
}

func scanMessage(result *fileutil.ScanResult, duration time.Duration) string {
	msg := fmt.Sprintf("Scanned %s: %d %s in %s",
		result.Root, len(result.Files), plural(len(result.Files), "file", "files"), formatDuration(duration))
	if n := len(result.Skipped); n > 0 {
		msg += fmt.Sprintf(" (%d unreadable %s skipped)", n, plural(n, "directory", "directories"))
	}
	return msg
}

func contextMessage(entries []models.ContextEntry, failed int, duration time.Duration) string {
	msg := fmt.Sprintf("Assembled context: %d %s, %d bytes in %s",
		len(entries), plural(len(entries), "file", "files"), contextBytes(entries), formatDuration(duration))
	if failed > 0 {
		msg += fmt.Sprintf(" (%d unreadable)", failed)
	}
	return msg
}

func countFailed(entries []models.ContextEntry) int {
	n := 0
	for _, e := range entries {
		if e.Failed() {
			n++
		}
	}
	return n
}
