// Package logging provides structured, trace-aware logging used across the
// ingest pipeline and the MCP request engine.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Level is a logging severity.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return "unknown"
	}
}

// Logger is the structured logging interface used throughout the server.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})

	WithComponent(component string) Logger
	WithTraceID(traceID string) Logger
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// structuredLogger writes one JSON object per line to os.Stderr, or a plain
// text line when useJSON is false.
type structuredLogger struct {
	level     Level
	traceID   string
	component string
	useJSON   bool
}

var globalLevel atomic.Int32

// SetGlobalLevel sets a process-wide minimum level. Every log call checks it,
// so it applies to already-constructed loggers as well as new ones, on top of
// each logger's own level.
func SetGlobalLevel(l Level) { globalLevel.Store(int32(l)) }

// New creates a root logger at the given level.
func New(level Level) Logger {
	return &structuredLogger{
		level:   level,
		useJSON: os.Getenv("LOG_JSON") != "false",
	}
}

func (l *structuredLogger) WithComponent(component string) Logger {
	n := *l
	n.component = component
	return &n
}

func (l *structuredLogger) WithTraceID(traceID string) Logger {
	n := *l
	n.traceID = traceID
	return &n
}

func (l *structuredLogger) log(level Level, msg string, fields ...interface{}) {
	if level < l.level || level < Level(globalLevel.Load()) {
		return
	}
	fieldMap := fieldsToMap(fields)
	if l.useJSON {
		e := entry{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Level:     level.String(),
			Message:   msg,
			TraceID:   l.traceID,
			Component: l.component,
			Fields:    fieldMap,
		}
		b, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s [%s] %s (log marshal error: %v)\n", e.Timestamp, e.Level, e.Message, err)
			return
		}
		fmt.Fprintln(os.Stderr, string(b))
		return
	}
	fmt.Fprintf(os.Stderr, "%s [%s] %s %s %v\n", time.Now().UTC().Format(time.RFC3339), level, l.component, msg, fieldMap)
}

func fieldsToMap(fields []interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		m[key] = fields[i+1]
	}
	return m
}

func (l *structuredLogger) Debug(msg string, fields ...interface{}) { l.log(DEBUG, msg, fields...) }
func (l *structuredLogger) Info(msg string, fields ...interface{})  { l.log(INFO, msg, fields...) }
func (l *structuredLogger) Warn(msg string, fields ...interface{})  { l.log(WARN, msg, fields...) }
func (l *structuredLogger) Error(msg string, fields ...interface{}) { l.log(ERROR, msg, fields...) }

// NewRequestID returns a short opaque request id, per §4.9 step 3.
func NewRequestID() string {
	return uuid.New().String()
}

type traceIDKey struct{}

// WithTraceContext stashes a trace id on ctx for downstream log calls.
func WithTraceContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext recovers a trace id stashed by WithTraceContext.
func TraceIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey{}).(string)
	return v
}
