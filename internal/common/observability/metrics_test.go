package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordRun(t *testing.T) {
	obs, err := New("observability-test")
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordRun(ctx, "Delivered", 120*time.Millisecond)
		obs.RecordRun(ctx, "Idle", time.Millisecond)
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

func TestObservability_NoopAndNil(t *testing.T) {
	ctx := context.Background()

	noop := NewNoop()
	assert.NotPanics(t, func() { noop.RecordRun(ctx, "Retryable", time.Second) })
	assert.NoError(t, noop.Shutdown(ctx))

	var missing *Observability
	assert.NotPanics(t, func() { missing.RecordRun(ctx, "Rejected", time.Second) })
	assert.NoError(t, missing.Shutdown(ctx))
}

func TestObservability_StartSpanWithoutTracer(t *testing.T) {
	ctx := context.Background()

	for _, obs := range []*Observability{NewNoop(), nil} {
		spanCtx, span := obs.StartSpan(ctx, "pipeline.search")
		assert.NotNil(t, spanCtx)
		assert.NotPanics(t, func() { EndSpan(span, errors.New("503")) })
	}
}

func TestObservability_EnableTracing(t *testing.T) {
	obs := NewNoop()
	require.NoError(t, obs.EnableTracing("observability-test", "http://localhost:14268/api/traces"))

	_, span := obs.StartSpan(context.Background(), "pipeline.notify")
	assert.True(t, span.SpanContext().IsValid())
	EndSpan(span, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = obs.Shutdown(ctx)
}
