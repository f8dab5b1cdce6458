package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
const (
	FieldComponent = "component"
	FieldSession   = "session_id"
	FieldMethod    = "method"
	FieldCommand   = "command"
	FieldURI       = "uri"

	// Reference registry
	FieldSource   = "source"
	FieldKind     = "kind"
	FieldName     = "name"
	FieldCount    = "count"
	FieldDropped  = "dropped"
	FieldLine     = "line"
	FieldTemplate = "template"
	FieldAttempts = "attempts"

	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldFile       = "file"
	FieldAddress    = "address"
	FieldSymbol     = "symbol"
)

type contextKey string

const (
	sessionKey   contextKey = "logger_session_id"
	componentKey contextKey = "logger_component"
)

// WithSession adds an LSP/MCP session id to the context for logging
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if session, ok := ctx.Value(sessionKey).(string); ok && session != "" {
		fields = append(fields, FieldSession, session)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	return fields
}

// LoggerFromContext attaches the context fields to log, or to the global
// logger when log is nil.
func LoggerFromContext(ctx context.Context, log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		log = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	reg := registry.New(logger.ComponentLogger("registry"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
