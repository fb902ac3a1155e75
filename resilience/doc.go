// Package resilience provides retry policies for facades.
//
// Every policy satisfies facade.Retryer, so it can be installed as the
// active retry policy of a facade configuration:
//
//	atlas.Context(facade.RetryerContext{Retryer: resilience.NewPollingRetryer(resilience.PollingConfig{
//	    Timeout: 5 * time.Second,
//	    Polling: 250 * time.Millisecond,
//	})})
//
// Policies:
//   - BackoffRetryer: bounded attempts with exponential backoff and jitter
//   - PollingRetryer: retries until success or a timeout elapses
//   - BreakerRetryer: circuit breaker that rejects calls while open
//
// Retry, RetryFunc and Poll are the underlying loops and can be used
// directly by strategies that need to wait for something.
package resilience
