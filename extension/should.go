package extension

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/resilience"
)

// Matcher is a condition on a target handle.
type Matcher interface {
	Matches(handle any) (bool, error)
	String() string
}

type matcherFunc struct {
	description string
	fn          func(handle any) bool
}

func (m matcherFunc) Matches(handle any) (bool, error) { return m.fn(handle), nil }
func (m matcherFunc) String() string                  { return m.description }

// Match creates a Matcher from a description and a predicate.
func Match(description string, fn func(handle any) bool) Matcher {
	return matcherFunc{description: description, fn: fn}
}

var (
	matcherType  = reflect.TypeFor[Matcher]()
	stringType   = reflect.TypeFor[string]()
	durationType = reflect.TypeFor[time.Duration]()
)

// Should answers condition methods by polling a Matcher against the target
// handle until it matches or the timeout elapses. Accepted methods are
// named Should or Waiting and take the arguments
//
//	(Matcher), (Matcher, time.Duration),
//	(string, Matcher) or (string, Matcher, time.Duration)
//
// where the string is a message reported on failure and the duration
// overrides the default timeout. They return either nothing but an error
// or the facade's own interface, for chaining.
//
// Should fails with CONDITION_NOT_MET; Waiting with TIMEOUT.
type Should struct {
	atlas    *facade.Atlas
	timeout  time.Duration
	interval time.Duration
}

// NewShould creates a Should with the given default timeout. atlas builds
// the facade returned by chaining methods.
func NewShould(atlas *facade.Atlas, timeout time.Duration) *Should {
	return &Should{atlas: atlas, timeout: timeout, interval: 100 * time.Millisecond}
}

// Interval sets the pause between matcher checks.
func (s *Should) Interval(d time.Duration) *Should {
	if d > 0 {
		s.interval = d
	}
	return s
}

type conditionArgs struct {
	message int
	matcher int
	timeout int
}

func parseConditionArgs(m facade.Method) (conditionArgs, bool) {
	in := make([]reflect.Type, m.NumIn())
	for i := range in {
		in[i] = m.Type.In(i)
	}
	switch {
	case len(in) == 1 && in[0] == matcherType:
		return conditionArgs{message: -1, matcher: 0, timeout: -1}, true
	case len(in) == 2 && in[0] == matcherType && in[1] == durationType:
		return conditionArgs{message: -1, matcher: 0, timeout: 1}, true
	case len(in) == 2 && in[0] == stringType && in[1] == matcherType:
		return conditionArgs{message: 0, matcher: 1, timeout: -1}, true
	case len(in) == 3 && in[0] == stringType && in[1] == matcherType && in[2] == durationType:
		return conditionArgs{message: 0, matcher: 1, timeout: 2}, true
	}
	return conditionArgs{}, false
}

func (s *Should) Test(m facade.Method) bool {
	if m.Name != "Should" && m.Name != "Waiting" {
		return false
	}
	if m.IsVariadic() {
		return false
	}
	if _, ok := parseConditionArgs(m); !ok {
		return false
	}
	results := m.Results()
	return len(results) == 0 || (len(results) == 1 && results[0] == m.Interface)
}

func (s *Should) Invoke(target facade.Target, m facade.Method, args []any) ([]any, error) {
	ca, _ := parseConditionArgs(m)
	if len(args) != m.NumIn() {
		return nil, errors.InvalidInput("args",
			fmt.Sprintf("%s takes %d arguments, got %d", m, m.NumIn(), len(args)))
	}
	matcher, _ := args[ca.matcher].(Matcher)
	if matcher == nil {
		return nil, errors.InvalidInput("matcher", "matcher is nil")
	}
	timeout := s.timeout
	if ca.timeout >= 0 {
		if d, ok := args[ca.timeout].(time.Duration); ok {
			timeout = d
		}
	}

	err := resilience.Poll(context.Background(), timeout, s.interval, func() (bool, error) {
		return matcher.Matches(target.Handle())
	})
	if err != nil {
		if m.Name == "Should" && errors.HasCode(err, errors.ErrCodeTimeout) {
			condition := matcher.String()
			if ca.message >= 0 {
				condition = fmt.Sprintf("%s: %s", args[ca.message], condition)
			}
			return nil, errors.ConditionNotMet(target.Name(), condition).WithCause(err)
		}
		return nil, err
	}

	if len(m.Results()) == 0 {
		return []any{}, nil
	}
	self, err := s.atlas.Build(target, m.Interface)
	if err != nil {
		return nil, err
	}
	return []any{self}, nil
}

var _ facade.MethodExtension = (*Should)(nil)
