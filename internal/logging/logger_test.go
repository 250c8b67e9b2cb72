package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestID_ReturnsUniqueNonEmptyValues(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestWithComponentAndTraceID_DoNotMutateParent(t *testing.T) {
	root := New(INFO)
	child := root.WithComponent("engine").WithTraceID("trace-1")

	// The returned logger is a distinct value; exercising it must not panic
	// and must not affect a fresh logger derived from root.
	child.Info("hello")
	other := root.WithComponent("store")
	other.Info("hello again")

	parent := root.(*structuredLogger)
	assert.Equal(t, "", parent.component)
	assert.Equal(t, "", parent.traceID)
	assert.Equal(t, "store", other.(*structuredLogger).component)
	assert.Equal(t, "", other.(*structuredLogger).traceID)
}

func TestTraceIDFromContext_RoundTrips(t *testing.T) {
	ctx := WithTraceContext(context.Background(), "trace-42")
	assert.Equal(t, "trace-42", TraceIDFromContext(ctx))
}

func TestTraceIDFromContext_EmptyWhenAbsent(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "debug", DEBUG.String())
	assert.Equal(t, "info", INFO.String())
	assert.Equal(t, "warn", WARN.String())
	assert.Equal(t, "error", ERROR.String())
	assert.Equal(t, "unknown", Level(99).String())
}
