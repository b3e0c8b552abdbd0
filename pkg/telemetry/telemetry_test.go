package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRecorder(t *testing.T) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewRecorder(provider, noop.NewTracerProvider())
	require.NoError(t, err)
	return rec, reader
}

// counterTotal sums all data points of an int64 counter
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestStartToolCallCountsCalls(t *testing.T) {
	rec, reader := newTestRecorder(t)

	for range 3 {
		_, done := rec.StartToolCall(t.Context(), "calculate", "test-client")
		done(nil, false)
	}

	assert.Equal(t, int64(3), counterTotal(t, reader, MetricToolCalls))
	assert.Equal(t, int64(0), counterTotal(t, reader, MetricToolErrors))
}

func TestStartToolCallCountsErrors(t *testing.T) {
	rec, reader := newTestRecorder(t)

	_, done := rec.StartToolCall(t.Context(), "get_users", "test-client")
	done(errors.New("boom"), false)

	_, done = rec.StartToolCall(t.Context(), "get_users", "test-client")
	done(nil, true)

	assert.Equal(t, int64(2), counterTotal(t, reader, MetricToolCalls))
	assert.Equal(t, int64(2), counterTotal(t, reader, MetricToolErrors))
}

func TestStartToolCallRecordsDuration(t *testing.T) {
	rec, reader := newTestRecorder(t)

	_, done := rec.StartToolCall(t.Context(), "count_words", "")
	done(nil, false)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != MetricToolDuration {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
			found = true
		}
	}
	assert.True(t, found, "duration histogram not recorded")
}

func TestStartToolCallSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	rec, err := NewRecorder(sdkmetric.NewMeterProvider(), tp)
	require.NoError(t, err)

	_, done := rec.StartToolCall(t.Context(), "calculate", "test-client")
	done(nil, false)
	_, done = rec.StartToolCall(t.Context(), "get_tasks", "test-client")
	done(errors.New("boom"), false)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "tools/call calculate", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("mcp.tool.name", "calculate"))
	assert.Contains(t, ended[0].Attributes(), attribute.String("mcp.client.name", "test-client"))

	assert.Equal(t, "tools/call get_tasks", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Len(t, ended[1].Events(), 1)
}

func TestGlobalUsesNoopProviders(t *testing.T) {
	rec, err := Global()
	require.NoError(t, err)

	_, done := rec.StartToolCall(t.Context(), "echo_message", "")
	done(nil, false)
}
