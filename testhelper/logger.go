package testhelper

import (
	"fmt"
	"sync"

	"github.com/consensuslabs/storefront/backend/internal/logger"
)

// LogEntry represents a log entry with its message and fields
type LogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// logStore is shared by a TestLogger and every logger derived from it
type logStore struct {
	mu            sync.RWMutex
	infoMessages  []LogEntry
	errorMessages []LogEntry
	warnMessages  []LogEntry
	debugMessages []LogEntry
}

// TestLogger records log calls so tests can assert on them
type TestLogger struct {
	store        *logStore
	fields       map[string]interface{}
	debugEnabled bool
}

var _ logger.Logger = (*TestLogger)(nil)

// NewTestLogger creates a new test logger instance
func NewTestLogger(debugEnabled bool) *TestLogger {
	return &TestLogger{
		store:        &logStore{},
		fields:       make(map[string]interface{}),
		debugEnabled: debugEnabled,
	}
}

func (t *TestLogger) record(bucket *[]LogEntry, msg string, fields map[string]interface{}) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	*bucket = append(*bucket, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

// LogInfo implements logger.Logger
func (t *TestLogger) LogInfo(msg string, fields map[string]interface{}) {
	t.record(&t.store.infoMessages, msg, fields)
}

// LogError implements logger.Logger
func (t *TestLogger) LogError(err error, msg string, fields ...map[string]interface{}) error {
	merged := map[string]interface{}{}
	if len(fields) > 0 {
		for k, v := range fields[0] {
			merged[k] = v
		}
	}
	if err != nil {
		merged["error"] = err.Error()
	}
	t.record(&t.store.errorMessages, msg, merged)
	return err
}

// LogErrorf implements logger.Logger
func (t *TestLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return t.LogError(err, fmt.Sprintf(format, args...))
}

// LogFatal implements logger.Logger. It never exits.
func (t *TestLogger) LogFatal(err error, context string) {
	t.LogError(err, "FATAL: "+context)
}

// LogDebug implements logger.Logger
func (t *TestLogger) LogDebug(message string, fields map[string]interface{}) {
	if !t.debugEnabled {
		return
	}
	t.record(&t.store.debugMessages, message, fields)
}

// LogWarn implements logger.Logger
func (t *TestLogger) LogWarn(message string, fields map[string]interface{}) {
	t.record(&t.store.warnMessages, message, fields)
}

// WithFields returns a logger that records into the same buffers with extra fields
func (t *TestLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return &TestLogger{
		store:        t.store,
		fields:       t.mergeFields(fields),
		debugEnabled: t.debugEnabled,
	}
}

// WithRequestID implements logger.Logger
func (t *TestLogger) WithRequestID(requestID string) logger.Logger {
	return t.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}

func (t *TestLogger) snapshot(bucket []LogEntry) []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]LogEntry(nil), bucket...)
}

// GetInfoMessages returns all info level messages
func (t *TestLogger) GetInfoMessages() []LogEntry {
	return t.snapshot(t.store.infoMessages)
}

// GetErrorMessages returns all error level messages
func (t *TestLogger) GetErrorMessages() []LogEntry {
	return t.snapshot(t.store.errorMessages)
}

// GetWarnMessages returns all warning level messages
func (t *TestLogger) GetWarnMessages() []LogEntry {
	return t.snapshot(t.store.warnMessages)
}

// GetDebugMessages returns all debug level messages
func (t *TestLogger) GetDebugMessages() []LogEntry {
	return t.snapshot(t.store.debugMessages)
}

// ClearMessages clears all logged messages
func (t *TestLogger) ClearMessages() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.infoMessages = nil
	t.store.errorMessages = nil
	t.store.warnMessages = nil
	t.store.debugMessages = nil
}

// HasWarning reports whether a warning with the exact message was logged
func (t *TestLogger) HasWarning(message string) bool {
	for _, e := range t.GetWarnMessages() {
		if e.Message == message {
			return true
		}
	}
	return false
}

func (t *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(t.fields)+len(fields))
	for k, v := range t.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}
