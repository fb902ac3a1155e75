package config

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/listener"
	"github.com/kbukum/atlas/logger"
	"github.com/kbukum/atlas/observability"
	"github.com/kbukum/atlas/resilience"
)

type applyOptions struct {
	log        *logger.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	registerer prometheus.Registerer
}

// ApplyOption overrides a dependency used by Apply.
type ApplyOption func(*applyOptions)

// WithLogger sets the logger used by the retry policy and the logging listener.
func WithLogger(l *logger.Logger) ApplyOption {
	return func(o *applyOptions) { o.log = l }
}

// WithTracer sets the tracer of the tracing listener.
func WithTracer(t trace.Tracer) ApplyOption {
	return func(o *applyOptions) { o.tracer = t }
}

// WithMeter sets the meter of the OpenTelemetry metrics listener.
func WithMeter(m metric.Meter) ApplyOption {
	return func(o *applyOptions) { o.meter = m }
}

// WithRegisterer sets the registry of the Prometheus listener.
func WithRegisterer(r prometheus.Registerer) ApplyOption {
	return func(o *applyOptions) { o.registerer = r }
}

// Apply installs the configured retry policy and listeners into cfg.
// Listeners are registered in the order logging, tracing, otel metrics,
// prometheus.
func (s *Settings) Apply(cfg *facade.Configuration, opts ...ApplyOption) error {
	o := applyOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(s.Name)
	}

	retryer, err := s.Retry.Retryer(o.log)
	if err != nil {
		return err
	}
	cfg.RegisterContext(facade.RetryerContext{Retryer: retryer})

	if s.LogCalls {
		cfg.RegisterExtension(listener.NewLogging(o.log))
	}
	if s.Tracing.Enabled {
		tracer := o.tracer
		if tracer == nil {
			tracer = observability.Tracer()
		}
		t := listener.NewTracing(tracer)
		if s.Tracing.RecordArgs {
			t.RecordArgs()
		}
		cfg.RegisterExtension(t)
	}
	if s.Metrics.OTel {
		meter := o.meter
		if meter == nil {
			meter = observability.Meter(s.Name)
		}
		m, err := observability.NewMetrics(meter)
		if err != nil {
			return err
		}
		cfg.RegisterExtension(listener.NewMetrics(m))
	}
	if s.Metrics.Prometheus {
		p, err := listener.NewPrometheus(o.registerer, s.Metrics.Namespace)
		if err != nil {
			return fmt.Errorf("registering prometheus collectors: %w", err)
		}
		cfg.RegisterExtension(p)
	}

	o.log.Debug("settings applied", logger.Fields(
		"retry", s.Retry.Kind,
		"log_calls", s.LogCalls,
		"tracing", s.Tracing.Enabled,
		"otel_metrics", s.Metrics.OTel,
		"prometheus", s.Metrics.Prometheus,
	))
	return nil
}

// Atlas creates a facade builder with the settings applied. Its logger is
// built from the logging section and registered under the settings name,
// so logger.Get(s.Name) returns it.
func (s *Settings) Atlas(opts ...ApplyOption) (*facade.Atlas, error) {
	log := logger.New(&s.Logging, s.Name)
	logger.Register(s.Name, log)
	atlas := facade.New().WithLogger(log)
	if err := s.Apply(atlas.Configuration(), append([]ApplyOption{WithLogger(log)}, opts...)...); err != nil {
		return nil, err
	}
	return atlas, nil
}

// Retryer builds the configured retry policy.
func (r RetrySettings) Retryer(log *logger.Logger) (facade.Retryer, error) {
	return r.retryer(r.Kind, log)
}

func (r RetrySettings) retryer(kind string, log *logger.Logger) (facade.Retryer, error) {
	switch kind {
	case "", RetryNone:
		return facade.EmptyRetryer{}, nil
	case RetryBackoff:
		return resilience.NewBackoffRetryer(resilience.RetryConfig{
			MaxAttempts:    r.Attempts,
			InitialBackoff: r.InitialBackoff,
			MaxBackoff:     r.MaxBackoff,
			BackoffFactor:  r.Factor,
			Jitter:         r.Jitter,
		}).WithLogger(log), nil
	case RetryPolling:
		cfg := resilience.PollingConfig{Timeout: r.Timeout, Polling: r.Polling}
		if len(r.Ignoring) > 0 {
			codes := make([]errors.ErrorCode, len(r.Ignoring))
			for i, c := range r.Ignoring {
				codes[i] = errors.ErrorCode(c)
			}
			cfg.RetryIf = resilience.IgnoreCodes(codes...)
		}
		return resilience.NewPollingRetryer(cfg), nil
	case RetryBreaker:
		if r.Inner == RetryBreaker {
			return nil, errors.InvalidConfig("retry.inner cannot be breaker")
		}
		inner, err := r.retryer(r.Inner, log)
		if err != nil {
			return nil, err
		}
		cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:        "atlas",
			MaxFailures: r.MaxFailures,
			Timeout:     r.OpenTimeout,
			OnStateChange: func(name string, from, to resilience.State) {
				log.Info("circuit state changed", logger.Fields(
					"breaker", name, "from", from.String(), "to", to.String(),
				))
			},
		})
		return resilience.NewBreakerRetryer(cb, inner), nil
	default:
		return nil, errors.InvalidConfig(fmt.Sprintf("unknown retry kind %q", kind))
	}
}

// InitTelemetry starts the OTLP exporters for the enabled sections that
// name an endpoint. The returned function shuts them down.
func (s *Settings) InitTelemetry(ctx context.Context) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return stderrors.Join(errs...)
	}

	if s.Tracing.Enabled && s.Tracing.Endpoint != "" {
		tc := observability.DefaultTracerConfig(s.Name)
		tc.Endpoint = s.Tracing.Endpoint
		tc.Insecure = s.Tracing.Insecure
		tc.SampleRate = s.Tracing.SampleRate
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if s.Metrics.OTel && s.Metrics.Endpoint != "" {
		mc := observability.DefaultMeterConfig(s.Name)
		mc.Endpoint = s.Metrics.Endpoint
		mc.Insecure = s.Metrics.Insecure
		mc.Interval = s.Metrics.Interval
		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}
