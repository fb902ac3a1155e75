package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/atlas/logger"
)

// Call outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global OpenTelemetry meter provider with an
// OTLP HTTP exporter. The provider should be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded for facade calls.
type Metrics struct {
	callTotal    metric.Int64Counter
	callDuration metric.Float64Histogram
	callActive   metric.Int64UpDownCounter
	failureTotal metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callTotal, err := meter.Int64Counter("atlas.call.total",
		metric.WithDescription("Total number of facade calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating atlas.call.total counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("atlas.call.duration",
		metric.WithDescription("Duration of facade calls in seconds, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating atlas.call.duration histogram: %w", err)
	}

	callActive, err := meter.Int64UpDownCounter("atlas.call.active",
		metric.WithDescription("Number of facade calls in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating atlas.call.active gauge: %w", err)
	}

	failureTotal, err := meter.Int64Counter("atlas.failure.total",
		metric.WithDescription("Failed facade calls by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating atlas.failure.total counter: %w", err)
	}

	return &Metrics{
		callTotal:    callTotal,
		callDuration: callDuration,
		callActive:   callActive,
		failureTotal: failureTotal,
	}, nil
}

// RecordCallStart increments the in-flight call count.
func (m *Metrics) RecordCallStart(ctx context.Context, facade, method string) {
	m.callActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("facade", facade),
		attribute.String("method", method),
	))
}

// RecordCallEnd decrements in-flight calls and records the completed call.
func (m *Metrics) RecordCallEnd(ctx context.Context, facade, method, status string, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String("facade", facade),
		attribute.String("method", method),
	}
	m.callActive.Add(ctx, -1, metric.WithAttributes(base...))
	m.callTotal.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String("status", status))...))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}

// RecordFailure counts a failed call by error code.
func (m *Metrics) RecordFailure(ctx context.Context, facade, method, code string) {
	m.failureTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("facade", facade),
		attribute.String("method", method),
		attribute.String("code", code),
	))
}
