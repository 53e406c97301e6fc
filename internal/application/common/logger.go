package common

import "context"

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// ContainerLogger is the only logging surface handlers and jobs see
type ContainerLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const (
	loggerKey contextKey = iota
	fieldsKey
)

func WithLogger(ctx context.Context, logger ContainerLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLogFields attaches metadata merged into every line logged through
// LoggerFromContext further down the call. Inner fields win on collision.
func WithLogFields(ctx context.Context, fields map[string]interface{}) context.Context {
	merged := make(map[string]interface{}, len(fields))
	if outer, ok := ctx.Value(fieldsKey).(map[string]interface{}); ok {
		for k, v := range outer {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// LoggerFromContext returns the context's logger, or a discarding one
func LoggerFromContext(ctx context.Context) ContainerLogger {
	logger, ok := ctx.Value(loggerKey).(ContainerLogger)
	if !ok {
		return discard{}
	}
	if fields, ok := ctx.Value(fieldsKey).(map[string]interface{}); ok && len(fields) > 0 {
		return fieldLogger{next: logger, fields: fields}
	}
	return logger
}

type discard struct{}

func (discard) Log(string, string, map[string]interface{}) {}

type fieldLogger struct {
	next   ContainerLogger
	fields map[string]interface{}
}

func (l fieldLogger) Log(level, message string, metadata map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(metadata))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range metadata {
		merged[k] = v
	}
	l.next.Log(level, message, merged)
}
