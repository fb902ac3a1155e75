package config

import (
	"time"

	"github.com/kbukum/atlas/logger"
	"github.com/kbukum/atlas/validation"
)

// Retry policy kinds.
const (
	RetryNone    = "none"
	RetryBackoff = "backoff"
	RetryPolling = "polling"
	RetryBreaker = "breaker"
)

// Settings configures how facades are built: the retry policy and the
// listeners attached to every call.
type Settings struct {
	Name     string          `yaml:"name" mapstructure:"name" validate:"required"`
	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	LogCalls bool            `yaml:"log_calls" mapstructure:"log_calls"`
	Retry    RetrySettings   `yaml:"retry" mapstructure:"retry"`
	Tracing  TracingSettings `yaml:"tracing" mapstructure:"tracing"`
	Metrics  MetricsSettings `yaml:"metrics" mapstructure:"metrics"`
}

// RetrySettings selects and tunes the retry policy.
type RetrySettings struct {
	Kind string `yaml:"kind" mapstructure:"kind" validate:"omitempty,oneof=none backoff polling breaker"`

	// backoff
	Attempts       int           `yaml:"attempts" mapstructure:"attempts" validate:"gte=0,lte=100"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gte=0"`
	Factor         float64       `yaml:"factor" mapstructure:"factor" validate:"gte=0"`
	Jitter         float64       `yaml:"jitter" mapstructure:"jitter" validate:"gte=0,lte=1"`

	// polling
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Polling time.Duration `yaml:"polling" mapstructure:"polling" validate:"gte=0"`
	// Ignoring lists the error codes retried by the polling policy; empty retries all.
	Ignoring []string `yaml:"ignoring" mapstructure:"ignoring"`

	// breaker
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=0"`
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout" validate:"gte=0"`
	// Inner is the policy run inside the breaker: none, backoff or polling.
	Inner string `yaml:"inner" mapstructure:"inner" validate:"omitempty,oneof=none backoff polling"`
}

// TracingSettings configures the tracing listener.
type TracingSettings struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	RecordArgs bool    `yaml:"record_args" mapstructure:"record_args"`
}

// MetricsSettings configures the metrics listeners.
type MetricsSettings struct {
	OTel       bool          `yaml:"otel" mapstructure:"otel"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
	Prometheus bool          `yaml:"prometheus" mapstructure:"prometheus"`
	Namespace  string        `yaml:"namespace" mapstructure:"namespace"`
}

// ApplyDefaults fills unset fields.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "atlas"
	}
	s.Logging.ApplyDefaults()

	r := &s.Retry
	if r.Kind == "" {
		r.Kind = RetryNone
	}
	if r.Attempts == 0 {
		r.Attempts = 3
	}
	if r.InitialBackoff == 0 {
		r.InitialBackoff = 100 * time.Millisecond
	}
	if r.MaxBackoff == 0 {
		r.MaxBackoff = 10 * time.Second
	}
	if r.Factor == 0 {
		r.Factor = 2.0
	}
	if r.Timeout == 0 {
		r.Timeout = 5 * time.Second
	}
	if r.Polling == 0 {
		r.Polling = 250 * time.Millisecond
	}
	if r.MaxFailures == 0 {
		r.MaxFailures = 5
	}
	if r.OpenTimeout == 0 {
		r.OpenTimeout = 30 * time.Second
	}
	if r.Inner == "" {
		r.Inner = RetryNone
	}

	if s.Tracing.SampleRate == 0 {
		s.Tracing.SampleRate = 1.0
	}
	if s.Metrics.Namespace == "" {
		s.Metrics.Namespace = "atlas"
	}
	if s.Metrics.Interval == 0 {
		s.Metrics.Interval = 15 * time.Second
	}
}

// Validate checks field tags and the rules that span fields.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	if err := s.Logging.Validate(); err != nil {
		return validation.New().Custom(false, "logging", err.Error()).Validate()
	}

	v := validation.New()
	switch s.Retry.Kind {
	case RetryBackoff:
		v.Range("retry.attempts", s.Retry.Attempts, 1, 100)
	case RetryPolling:
		v.Positive("retry.timeout", s.Retry.Timeout).Positive("retry.polling", s.Retry.Polling)
	case RetryBreaker:
		v.Range("retry.max_failures", s.Retry.MaxFailures, 1, 1000).
			Custom(s.Retry.Inner != RetryBreaker, "retry.inner", "cannot be breaker")
	}
	v.Custom(s.Metrics.Endpoint == "" || s.Metrics.OTel, "metrics.endpoint", "requires metrics.otel")
	return v.Validate()
}

// Load loads, defaults and validates the Settings named name.
func Load(name string, opts ...LoaderOption) (*Settings, error) {
	s := &Settings{Name: name}
	if err := LoadConfig(name, s, opts...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
