// Package telemetry records tool call metrics and spans through OpenTelemetry.
// Without an SDK installed by the host process the global providers are
// no-ops.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/docker/mcp-simple-server"

const (
	MetricToolCalls    = "mcp.tool.calls"
	MetricToolErrors   = "mcp.tool.errors"
	MetricToolDuration = "mcp.tool.duration"
)

type Recorder struct {
	calls    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
	tracer   trace.Tracer
}

// Global builds a Recorder on the process-wide providers.
func Global() (*Recorder, error) {
	return NewRecorder(otel.GetMeterProvider(), otel.GetTracerProvider())
}

func NewRecorder(mp metric.MeterProvider, tp trace.TracerProvider) (*Recorder, error) {
	meter := mp.Meter(instrumentationName)

	calls, err := meter.Int64Counter(MetricToolCalls,
		metric.WithDescription("Number of tool calls"),
		metric.WithUnit("{call}"))
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(MetricToolErrors,
		metric.WithDescription("Number of failed tool calls"),
		metric.WithUnit("{call}"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(MetricToolDuration,
		metric.WithDescription("Duration of tool calls"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		calls:    calls,
		errors:   errs,
		duration: duration,
		tracer:   tp.Tracer(instrumentationName),
	}, nil
}

// StartToolCall opens a span and counts the call. The returned function must
// be called once the handler returns; failed is true when the handler
// produced an error result rather than a Go error.
func (r *Recorder) StartToolCall(ctx context.Context, toolName, clientName string) (context.Context, func(err error, failed bool)) {
	attrs := []attribute.KeyValue{
		attribute.String("mcp.tool.name", toolName),
		attribute.String("mcp.client.name", clientName),
	}

	ctx, span := r.tracer.Start(ctx, "tools/call "+toolName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...))
	r.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error, failed bool) {
		defer span.End()

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		r.duration.Record(ctx, elapsed, metric.WithAttributes(attrs...))

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "Tool execution failed")
			r.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		case failed:
			span.SetStatus(codes.Error, "Tool returned an error result")
			r.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		default:
			span.SetStatus(codes.Ok, "")
		}
	}
}
