package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName — имя трейсера для спанов ядра синхронизации заказов.
const InstrumentationName = "github.com/Gunvolt24/orders_sync"

// Options — параметры экспорта трейсов.
type Options struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRatio float64
}

// SetupTracing настраивает OTLP/HTTP экспорт, семплинг и глобальные пропагаторы.
// Возвращает функцию корректного завершения провайдера.
// При выключенном трейсинге ставятся только пропагаторы, спаны остаются no-op.
func SetupTracing(ctx context.Context, opts Options) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		),
	)
	if !opts.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	// Дефолты: endpoint и границы семплинга [0..1].
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "localhost:4318"
	}
	sampleRatio := min(max(opts.SampleRatio, 0), 1)

	// Экспортёр OTLP/HTTP без TLS.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	// Провайдер трейсинга: батч-экспорт, семплинг и ресурсы (имя сервиса).
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(opts.ServiceName),
			attribute.String("telemetry.sdk", "opentelemetry"),
		)),
	)

	otel.SetTracerProvider(traceProvider)
	return traceProvider.Shutdown, nil
}

// Tracer — трейсер ядра из глобального провайдера.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
