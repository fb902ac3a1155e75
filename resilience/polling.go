package resilience

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
)

// PollingConfig configures a PollingRetryer.
type PollingConfig struct {
	// Timeout bounds the total time spent retrying.
	Timeout time.Duration
	// Polling is the pause between attempts.
	Polling time.Duration
	// RetryIf selects the errors worth retrying; others fail immediately.
	// Nil retries every error.
	RetryIf func(error) bool
}

// DefaultPollingConfig returns a five second timeout polled every 250ms.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		Timeout: 5 * time.Second,
		Polling: 250 * time.Millisecond,
	}
}

// PollingRetryer calls until the call succeeds or the timeout elapses,
// then returns the last error unchanged. The call always runs at least once.
type PollingRetryer struct {
	cfg PollingConfig
}

// NewPollingRetryer creates a PollingRetryer.
func NewPollingRetryer(cfg PollingConfig) *PollingRetryer {
	if cfg.Polling <= 0 {
		cfg.Polling = 250 * time.Millisecond
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	return &PollingRetryer{cfg: cfg}
}

// Config returns the effective configuration.
func (r *PollingRetryer) Config() PollingConfig { return r.cfg }

func (r *PollingRetryer) Invoke(call func() ([]any, error)) ([]any, error) {
	deadline := time.Now().Add(r.cfg.Timeout)
	for {
		out, err := call()
		if err == nil {
			return out, nil
		}
		if r.cfg.RetryIf != nil && !r.cfg.RetryIf(err) {
			return nil, err
		}
		if !time.Now().Add(r.cfg.Polling).Before(deadline) {
			return nil, err
		}
		time.Sleep(r.cfg.Polling)
	}
}

// IgnoreErrors returns a RetryIf predicate that retries only errors
// matching one of targets (by errors.Is).
func IgnoreErrors(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if stderrors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// IgnoreCodes returns a RetryIf predicate that retries only AppErrors
// carrying one of codes.
func IgnoreCodes(codes ...errors.ErrorCode) func(error) bool {
	return func(err error) bool {
		for _, c := range codes {
			if errors.HasCode(err, c) {
				return true
			}
		}
		return false
	}
}

// Poll calls check every interval until it reports true, returns an error,
// or timeout elapses. On timeout it returns an ErrCodeTimeout AppError;
// check is always called at least once.
func Poll(ctx context.Context, timeout, interval time.Duration, check func() (bool, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		ok, err := check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Timeout("poll", ctx.Err()).WithDetail("attempts", attempt).
				WithDetail("timeout", fmt.Sprint(timeout))
		case <-ticker.C:
		}
	}
}

var _ facade.Retryer = (*PollingRetryer)(nil)
