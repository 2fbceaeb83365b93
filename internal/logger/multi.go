package logger

import (
	"time"

	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/models"
)

// MultiLogger forwards every call to each wrapped logger in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers; nil entries are dropped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogScanComplete(result *fileutil.ScanResult, duration time.Duration) {
	for _, l := range m.loggers {
		l.LogScanComplete(result, duration)
	}
}

func (m *MultiLogger) LogContextAssembled(entries []models.ContextEntry, duration time.Duration) {
	for _, l := range m.loggers {
		l.LogContextAssembled(entries, duration)
	}
}
