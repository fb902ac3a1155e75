package facade

import (
	"time"

	"github.com/google/uuid"
)

// State is the dispatch state of one call.
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateSuccess
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Invocation records one dispatched call. The same value is passed to every
// listener hook of that call, so listeners can keep per-call state in it.
type Invocation struct {
	ID        string
	Target    Target
	Method    Method
	Args      []any
	Result    []any
	Err       error
	State     State
	StartedAt time.Time
	Duration  time.Duration

	attrs map[any]any
}

func newInvocation(target Target, m Method, args []any) *Invocation {
	return &Invocation{
		ID:        uuid.NewString(),
		Target:    target,
		Method:    m,
		Args:      args,
		State:     StateIdle,
		StartedAt: time.Now(),
	}
}

// Set stores a listener-private value on the invocation.
func (i *Invocation) Set(key, val any) {
	if i.attrs == nil {
		i.attrs = make(map[any]any)
	}
	i.attrs[key] = val
}

// Value returns a value stored with Set, or nil.
func (i *Invocation) Value(key any) any {
	return i.attrs[key]
}

func (i *Invocation) succeed(result []any) {
	i.State = StateSuccess
	i.Result = result
	i.Duration = time.Since(i.StartedAt)
}

func (i *Invocation) fail(err error) {
	i.State = StateFailed
	i.Err = err
	i.Duration = time.Since(i.StartedAt)
}
