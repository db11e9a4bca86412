package pubsub

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "authform-pubsub"

// TracingConfig controls span export for bus traffic.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	ZipkinURL   string
}

// SetupTracing returns a tracer for the bus and a shutdown func that
// flushes pending spans. A disabled config yields a no-op tracer.
func SetupTracing(ctx context.Context, cfg TracingConfig) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider().Tracer(tracerName), func(context.Context) error { return nil }, nil
	}

	exporter, err := zipkin.New(cfg.ZipkinURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp.Tracer(tracerName), tp.Shutdown, nil
}

// traceContext carries span context between publisher and subscriber in
// message metadata.
var traceContext = propagation.TraceContext{}

func startPublishSpan(ctx context.Context, tracer trace.Tracer, msg Message, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pubsub.publish."+msg.Topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(messageAttributes("publish", msg, id)...),
	)
}

func startProcessSpan(ctx context.Context, tracer trace.Tracer, msg Message, id string, carrier map[string]string) (context.Context, trace.Span) {
	ctx = traceContext.Extract(ctx, propagation.MapCarrier(carrier))
	return tracer.Start(ctx, "pubsub.process."+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(messageAttributes("process", msg, id)...),
	)
}

func messageAttributes(op string, msg Message, id string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", op),
		attribute.String("messaging.destination", msg.Topic),
		attribute.String("messaging.message_id", id),
		attribute.String("user.id", msg.UserID),
		attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
