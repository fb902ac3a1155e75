package facadetest

import (
	"sync/atomic"

	"github.com/kbukum/atlas/facade"
)

// Strategy is a MethodExtension built from a predicate and fixed outcome.
// It counts its invocations.
type Strategy struct {
	Name    string
	Match   func(m facade.Method) bool
	Results []any
	Err     error

	// FailTimes makes the first FailTimes invocations return Err even when
	// the strategy would otherwise succeed.
	FailTimes int

	calls atomic.Int64
}

func (s *Strategy) Test(m facade.Method) bool {
	return s.Match == nil || s.Match(m)
}

func (s *Strategy) Invoke(_ facade.Target, _ facade.Method, _ []any) ([]any, error) {
	n := s.calls.Add(1)
	if int(n) <= s.FailTimes {
		return nil, s.Err
	}
	if s.FailTimes == 0 && s.Err != nil {
		return nil, s.Err
	}
	return s.Results, nil
}

// Calls returns how many times Invoke ran.
func (s *Strategy) Calls() int { return int(s.calls.Load()) }

// MatchName returns a predicate accepting methods with one of names.
func MatchName(names ...string) func(facade.Method) bool {
	return func(m facade.Method) bool {
		for _, n := range names {
			if m.Name == n {
				return true
			}
		}
		return false
	}
}

// CountingRetryer wraps a Retryer and counts how often it is consulted.
type CountingRetryer struct {
	Inner facade.Retryer
	calls atomic.Int64
}

func (r *CountingRetryer) Invoke(call func() ([]any, error)) ([]any, error) {
	r.calls.Add(1)
	inner := r.Inner
	if inner == nil {
		inner = facade.EmptyRetryer{}
	}
	return inner.Invoke(call)
}

// Calls returns how many calls went through the retryer.
func (r *CountingRetryer) Calls() int { return int(r.calls.Load()) }

var (
	_ facade.MethodExtension = (*Strategy)(nil)
	_ facade.Retryer         = (*CountingRetryer)(nil)
)
