package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/models"
)

// ConsoleLogger logs to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color honors NO_COLOR and TTY detection.
		return !color.NoColor
	}
	return false
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	}
	return level
}

// LogScanComplete logs a finished scan.
// Format: "[HH:MM:SS] [INFO] Scanned <root>: <n> files in <duration>"
func (cl *ConsoleLogger) LogScanComplete(result *fileutil.ScanResult, duration time.Duration) {
	if result == nil {
		return
	}
	for _, dir := range result.Skipped {
		cl.LogDebug(fmt.Sprintf("Skipped unreadable directory: %s", dir))
	}

	msg := scanMessage(result, duration)
	if cl.colorOutput {
		msg = strings.Replace(msg, result.Root, color.New(color.Bold).Sprint(result.Root), 1)
	}
	cl.LogInfo(msg)
}

// LogContextAssembled logs an assembled context.
// Format: "[HH:MM:SS] [INFO] Assembled context: <n> files, <bytes> bytes in <duration>"
func (cl *ConsoleLogger) LogContextAssembled(entries []models.ContextEntry, duration time.Duration) {
	failed := 0
	for _, e := range entries {
		if e.Failed() {
			failed++
			cl.LogWarn(fmt.Sprintf("Could not read %s: %v", e.Path, e.Err))
		}
	}
	cl.LogInfo(contextMessage(entries, failed, duration))
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards all messages.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string)  {}
func (n *NoOpLogger) LogWarn(string)  {}
func (n *NoOpLogger) LogError(string) {}

func (n *NoOpLogger) LogScanComplete(*fileutil.ScanResult, time.Duration)      {}
func (n *NoOpLogger) LogContextAssembled([]models.ContextEntry, time.Duration) {}
