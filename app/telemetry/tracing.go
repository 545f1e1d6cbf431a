// Package telemetry configures OpenTelemetry tracing for swapd. Spans are
// exported over OTLP/HTTP or kept in process when no exporter is selected.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// ExporterNone records spans without sending them anywhere.
	ExporterNone = "none"
	// ExporterOTLP sends spans to an OTLP/HTTP collector.
	ExporterOTLP = "otlp"

	DefaultServiceName = "swapd"
	DefaultEndpoint    = "localhost:4318"

	serviceVersion = "1.0.0"
)

// Config holds the tracing configuration.
type Config struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	ServiceName string
	SampleRate  float64
}

// DefaultConfig returns tracing disabled with OTLP settings for a local collector.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Exporter:    ExporterOTLP,
		Endpoint:    DefaultEndpoint,
		ServiceName: DefaultServiceName,
		SampleRate:  1,
	}
}

// Validate checks the tracing configuration. A disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Exporter {
	case ExporterNone:
	case ExporterOTLP:
		if c.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required for the otlp exporter")
		}
		if _, err := url.Parse("http://" + trimScheme(c.Endpoint)); err != nil {
			return fmt.Errorf("invalid telemetry.endpoint: %w", err)
		}
	default:
		return fmt.Errorf("unsupported telemetry.exporter %q", c.Exporter)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("telemetry.service_name must not be empty")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1")
	}
	return nil
}

func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimPrefix(endpoint, "https://")
}

// Provider owns the tracer provider of a node.
type Provider struct {
	tracerProvider *tracesdk.TracerProvider
	tracer         trace.Tracer
	config         Config
}

// NewProvider builds the tracer provider described by cfg. A disabled config
// yields a provider whose tracer records nothing. Extra options are applied
// after the exporter, e.g. additional span processors.
func NewProvider(ctx context.Context, cfg Config, chainID uint64, opts ...tracesdk.TracerProviderOption) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracer: noop.NewTracerProvider().Tracer(DefaultServiceName),
			config: cfg,
		}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("chain.id", strconv.FormatUint(chainID, 10)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []tracesdk.TracerProviderOption{
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	}
	if cfg.Exporter == ExporterOTLP {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(trimScheme(cfg.Endpoint)),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		options = append(options, tracesdk.WithBatcher(exporter,
			tracesdk.WithMaxExportBatchSize(512),
			tracesdk.WithBatchTimeout(5*time.Second),
		))
	}
	options = append(options, opts...)

	tp := tracesdk.NewTracerProvider(options...)
	return &Provider{
		tracerProvider: tp,
		tracer:         tp.Tracer(cfg.ServiceName),
		config:         cfg,
	}, nil
}

// Tracer returns the tracer of the provider.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.tracerProvider != nil
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
