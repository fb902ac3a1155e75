package resilience

import (
	"context"
	"time"

	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/logger"
)

// BackoffRetryer retries a failing call a bounded number of times with
// exponential backoff.
type BackoffRetryer struct {
	cfg RetryConfig
}

// NewBackoffRetryer creates a BackoffRetryer. Zero fields of cfg take the
// DefaultRetryConfig values.
func NewBackoffRetryer(cfg RetryConfig) *BackoffRetryer {
	return &BackoffRetryer{cfg: cfg.withDefaults()}
}

// WithLogger logs every retry at debug level, keeping any OnRetry hook.
func (r *BackoffRetryer) WithLogger(log *logger.Logger) *BackoffRetryer {
	next := r.cfg.OnRetry
	r.cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Debug("retrying call", logger.Fields(
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff", backoff.String(),
		))
		if next != nil {
			next(attempt, err, backoff)
		}
	}
	return r
}

// Config returns the effective configuration.
func (r *BackoffRetryer) Config() RetryConfig { return r.cfg }

func (r *BackoffRetryer) Invoke(call func() ([]any, error)) ([]any, error) {
	return Retry(context.Background(), r.cfg, call)
}

var _ facade.Retryer = (*BackoffRetryer)(nil)
