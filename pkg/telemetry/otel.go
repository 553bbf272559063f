package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

// Default tracer name for Bindery applications.
const defaultTracerName = "bindery"

// TracerConfig configures the OpenTelemetry instrumentation.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "bindery").
	TracerName string

	// MinFanout skips spans for fan-outs smaller than this (default: 1).
	// Raise it to trace only wide broadcasts.
	MinFanout int
}

// TracerOption configures the OpenTelemetry instrumentation.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithMinFanout sets the minimum fan-out worth a span.
func WithMinFanout(n int) TracerOption {
	return func(c *TracerConfig) {
		c.MinFanout = n
	}
}

func defaultTracerConfig() TracerConfig {
	return TracerConfig{
		TracerName: defaultTracerName,
		MinFanout:  1,
	}
}

// Tracer records a span per notification fan-out. It implements
// reactive.Instrumentation; creation and subscription churn are not traced.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// main() before installing the instrumentation:
//
//	otel.SetTracerProvider(tp)
//	reactive.SetInstrumentation(telemetry.NewTracer())
type Tracer struct {
	tracer    trace.Tracer
	minFanout int
}

// NewTracer creates the OpenTelemetry instrumentation.
func NewTracer(opts ...TracerOption) *Tracer {
	config := defaultTracerConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Tracer{
		tracer:    otel.Tracer(config.TracerName),
		minFanout: config.MinFanout,
	}
}

// Created implements reactive.Instrumentation.
func (t *Tracer) Created(reactive.Kind) {}

// Subscribed implements reactive.Instrumentation.
func (t *Tracer) Subscribed(reactive.Kind) {}

// Unsubscribed implements reactive.Instrumentation.
func (t *Tracer) Unsubscribed(reactive.Kind) {}

// Notified implements reactive.Instrumentation. The fan-out already happened
// when this is called, so the span is reconstructed from its measured
// duration.
func (t *Tracer) Notified(kind reactive.Kind, fanout int, seconds float64) {
	if fanout < t.minFanout {
		return
	}

	end := time.Now()
	start := end.Add(-time.Duration(seconds * float64(time.Second)))

	_, span := t.tracer.Start(
		context.Background(),
		"bindery.notify",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(
			attribute.String("bindery.kind", string(kind)),
			attribute.Int("bindery.fanout", fanout),
		),
	)
	span.End(trace.WithTimestamp(end))
}

var _ reactive.Instrumentation = (*Tracer)(nil)

// Combine fans instrumentation observations out to several sinks, so metrics
// and tracing can be installed together:
//
//	reactive.SetInstrumentation(telemetry.Combine(
//	    telemetry.NewMetrics(),
//	    telemetry.NewTracer(),
//	))
func Combine(sinks ...reactive.Instrumentation) reactive.Instrumentation {
	return multiInstrumentation(sinks)
}

type multiInstrumentation []reactive.Instrumentation

func (m multiInstrumentation) Created(kind reactive.Kind) {
	for _, in := range m {
		in.Created(kind)
	}
}

func (m multiInstrumentation) Subscribed(kind reactive.Kind) {
	for _, in := range m {
		in.Subscribed(kind)
	}
}

func (m multiInstrumentation) Unsubscribed(kind reactive.Kind) {
	for _, in := range m {
		in.Unsubscribed(kind)
	}
}

func (m multiInstrumentation) Notified(kind reactive.Kind, fanout int, seconds float64) {
	for _, in := range m {
		in.Notified(kind, fanout, seconds)
	}
}
