package storage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for statekit storage spans.
const defaultTracerName = "statekit"

// TracingConfig configures the OpenTelemetry instrumentation wrapper.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "statekit").
	TracerName string

	// IncludeKey includes the storage key as a span attribute.
	// Enabled by default; keys name stores, not secrets.
	IncludeKey bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry instrumentation wrapper.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithIncludeKey enables/disables the storage key attribute on spans.
func WithIncludeKey(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeKey = include
	}
}

func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName: defaultTracerName,
		IncludeKey: true,
	}
}

// tracedStore wraps a Store and emits one span per operation.
type tracedStore struct {
	next   Store
	config TracingConfig
}

// WithTracing wraps a store so every operation produces an OpenTelemetry
// span (storage.get, storage.set, storage.remove) with errors recorded on
// the span.
//
// The tracer uses the global OpenTelemetry tracer provider; configure it in
// main() with otel.SetTracerProvider before first use.
func WithTracing(store Store, opts ...TracingOption) Store {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &tracedStore{
		next:   store,
		config: config,
	}
}

// startSpan opens a span for one operation.
func (t *tracedStore) startSpan(ctx context.Context, name, key string) (context.Context, trace.Span) {
	var attrs []attribute.KeyValue
	if t.config.IncludeKey {
		attrs = append(attrs, attribute.String("statekit.storage.key", key))
	}

	return t.config.tracer.Start(
		ctx,
		name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// finishSpan records the outcome and ends the span.
func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (t *tracedStore) Get(ctx context.Context, key string) ([]byte, error) {
	spanCtx, span := t.startSpan(ctx, "storage.get", key)
	value, err := t.next.Get(spanCtx, key)
	span.SetAttributes(attribute.Bool("statekit.storage.hit", value != nil))
	finishSpan(span, err)
	return value, err
}

func (t *tracedStore) Set(ctx context.Context, key string, value []byte) error {
	spanCtx, span := t.startSpan(ctx, "storage.set", key)
	err := t.next.Set(spanCtx, key, value)
	finishSpan(span, err)
	return err
}

func (t *tracedStore) Remove(ctx context.Context, key string) error {
	spanCtx, span := t.startSpan(ctx, "storage.remove", key)
	err := t.next.Remove(spanCtx, key)
	finishSpan(span, err)
	return err
}

func (t *tracedStore) Close() error {
	return t.next.Close()
}
