package logger

import (
	"sort"

	"go.uber.org/zap"
)

// FieldLogger adapts a zap logger to the map based elements.Logger interface
// used by the HTTP transport.
type FieldLogger struct {
	logger *zap.Logger
}

// NewFieldLogger wraps logger.
func NewFieldLogger(logger *zap.Logger) *FieldLogger {
	return &FieldLogger{logger: logger}
}

// Debug logs at debug level.
func (l *FieldLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, toFields(fields)...)
}

// Info logs at info level.
func (l *FieldLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, toFields(fields)...)
}

// Warn logs at warn level.
func (l *FieldLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, toFields(fields)...)
}

// Error logs at error level.
func (l *FieldLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, toFields(fields)...)
}

// toFields converts in key order so output is stable.
func toFields(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		zapFields = append(zapFields, zap.Any(key, fields[key]))
	}

	return zapFields
}
