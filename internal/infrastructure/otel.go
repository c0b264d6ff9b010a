package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ServiceName    = "spotify-streaming-etl"
	ServiceVersion = "1.0.0"
	TracerName     = "spotifyetl"
)

// TracerProviders holds the tracing provider and tracer for one run
type TracerProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
}

// InitializeTracing sets up an OpenTelemetry tracer that exports spans to
// stdout. When disabled a noop tracer is returned so stage code never has
// to branch.
func InitializeTracing(enabled bool, logger *slog.Logger) (*TracerProviders, error) {
	if !enabled {
		return &TracerProviders{Tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing initialized",
		slog.String("service", ServiceName),
		slog.String("exporter", "stdout"))

	return &TracerProviders{
		TracerProvider: tp,
		Tracer:         tp.Tracer(TracerName),
	}, nil
}

// Shutdown flushes and stops the tracer provider
func (p *TracerProviders) Shutdown(ctx context.Context) error {
	if p.TracerProvider == nil {
		return nil
	}
	return p.TracerProvider.Shutdown(ctx)
}
