// Package telemetry sets up OpenTelemetry tracing. Spans are exported over
// OTLP/HTTP when an endpoint is configured; otherwise a no-op tracer is
// returned so callers never need to check.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used across debugdeck.
const InstrumentationName = "debugdeck"

// Options configures the provider.
type Options struct {
	Endpoint    string // host:port of the OTLP/HTTP collector; empty disables export
	ServiceName string
	Insecure    bool
}

// Provider owns the tracer provider and shuts it down.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer oteltrace.Tracer
}

// New creates a Provider. With no endpoint it returns a provider whose
// tracer records nothing.
func New(ctx context.Context, opts Options) (*Provider, error) {
	if opts.Endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}, nil
	}

	clientOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	name := opts.ServiceName
	if name == "" {
		name = InstrumentationName
	}
	res := resource.NewSchemaless(attribute.String("service.name", name))

	return NewWithSDK(sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)), nil
}

// NewWithSDK wraps an existing SDK provider, e.g. one backed by a span
// recorder in tests.
func NewWithSDK(sdk *sdktrace.TracerProvider) *Provider {
	return &Provider{sdk: sdk, tracer: sdk.Tracer(InstrumentationName)}
}

// Tracer returns the debugdeck tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil {
		return noop.NewTracerProvider().Tracer(InstrumentationName)
	}
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Install registers the provider as the global one.
func (p *Provider) Install() {
	if p.Enabled() {
		otel.SetTracerProvider(p.sdk)
	}
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// RecordError marks span as failed when err is non-nil and returns err
// unchanged.
func RecordError(span oteltrace.Span, err error) error {
	if err != nil && !errors.Is(err, context.Canceled) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
