package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config contains configuration for OpenTelemetry tracing
type Config struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`

	// OTLP/HTTP collector endpoint, host:port
	ExportEndpoint string        `yaml:"export_endpoint"`
	ExportTimeout  time.Duration `yaml:"export_timeout"`
	ExportInsecure bool          `yaml:"export_insecure"`

	SampleRate float64 `yaml:"sample_rate"`
}

// DefaultConfig returns default tracing configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		ServiceName:    "firesync",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		ExportEndpoint: "localhost:4318",
		ExportTimeout:  10 * time.Second,
		SampleRate:     1.0,
	}
}

// Service owns the global tracer provider lifecycle
type Service struct {
	provider *sdktrace.TracerProvider
}

// New installs a global OTLP tracer provider. When tracing is disabled
// the returned service is a no-op and the default provider stays in
// place, so spans become zero-cost.
func New(ctx context.Context, config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if !config.Enabled {
		return &Service{}, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.ExportEndpoint),
		otlptracehttp.WithTimeout(config.ExportTimeout),
	}
	if config.ExportInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Service{provider: provider}, nil
}

// Shutdown flushes pending spans
func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Shutdown(ctx)
}
