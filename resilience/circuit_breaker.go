package resilience

import (
	"sync"
	"time"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows calls to pass through.
	StateClosed State = iota
	// StateOpen rejects all calls.
	StateOpen
	// StateHalfOpen allows limited calls to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies this circuit breaker in errors and callbacks.
	Name string
	// MaxFailures is the number of consecutive failures before opening.
	MaxFailures int
	// Timeout is how long the circuit stays open before half-opening.
	Timeout time.Duration
	// HalfOpenMaxCalls is the number of trial calls allowed when half-open.
	HalfOpenMaxCalls int
	// OnStateChange is called when state changes.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 1,
	}
}

// CircuitBreaker fails calls fast while the wrapped target is unhealthy.
//
// States:
//   - Closed: calls pass through; consecutive failures are counted
//   - Open: calls are rejected with ErrCodeCircuitOpen until Timeout passes
//   - Half-Open: a limited number of trial calls decide whether to close
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	lastFailureTime time.Time
	halfOpenCalls   int
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// Invoke runs call through the breaker. While the circuit is open call is
// not run and an ErrCodeCircuitOpen AppError is returned.
func (cb *CircuitBreaker) Invoke(call func() ([]any, error)) ([]any, error) {
	if !cb.allowRequest() {
		return nil, errors.CircuitOpen(cb.config.Name)
	}
	out, err := call()
	cb.recordResult(err)
	return out, err
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Failures returns the current failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the circuit and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.toState(StateClosed)
	cb.failures = 0
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.halfOpenCalls < cb.config.HalfOpenMaxCalls {
			cb.halfOpenCalls++
			return true
		}
		return false
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentState()
	if err != nil {
		cb.failures++
		cb.lastFailureTime = time.Now()
		if state == StateHalfOpen || (state == StateClosed && cb.failures >= cb.config.MaxFailures) {
			cb.toState(StateOpen)
		}
		return
	}

	switch state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.HalfOpenMaxCalls {
			cb.toState(StateClosed)
		}
	}
}

// currentState returns the state, half-opening an expired open circuit.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && time.Since(cb.lastFailureTime) >= cb.config.Timeout {
		cb.toState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.successes = 0
	cb.halfOpenCalls = 0
	if to == StateClosed {
		cb.failures = 0
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// BreakerRetryer guards an inner Retryer with a circuit breaker. Each
// facade call counts once against the breaker, however many attempts the
// inner retryer makes.
type BreakerRetryer struct {
	breaker *CircuitBreaker
	inner   facade.Retryer
}

// NewBreakerRetryer creates a BreakerRetryer. A nil inner runs the call once.
func NewBreakerRetryer(cb *CircuitBreaker, inner facade.Retryer) *BreakerRetryer {
	if inner == nil {
		inner = facade.EmptyRetryer{}
	}
	return &BreakerRetryer{breaker: cb, inner: inner}
}

// Breaker returns the underlying circuit breaker.
func (r *BreakerRetryer) Breaker() *CircuitBreaker { return r.breaker }

func (r *BreakerRetryer) Invoke(call func() ([]any, error)) ([]any, error) {
	return r.breaker.Invoke(func() ([]any, error) {
		return r.inner.Invoke(call)
	})
}

var (
	_ facade.Retryer = (*CircuitBreaker)(nil)
	_ facade.Retryer = (*BreakerRetryer)(nil)
)
