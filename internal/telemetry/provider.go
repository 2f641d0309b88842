package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

const serviceName = "gemini-qa"

// Init installs a tracer provider exporting over OTLP/HTTP. With no endpoint
// configured the global no-op provider stays in place and the returned
// shutdown func is a nil-safe no-op, so tracing is disabled gracefully.
func Init(ctx context.Context) (func(context.Context) error, error) {
	logger := logger_i.NewLogger("telemetry")

	endpoint := config.OtelEndpoint()
	if endpoint == "" {
		logger.Info("No OTLP endpoint configured, tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(stripScheme(endpoint)),
	}
	if strings.HasPrefix(endpoint, "http://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	logger.Info("Tracing enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}

func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return endpoint
}
