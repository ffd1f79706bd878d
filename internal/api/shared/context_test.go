package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "no trace ID before SetTraceID")

	ctx = SetTraceID(ctx)
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 2*TraceIDLength)

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other, "trace IDs must be unique per request")
}
