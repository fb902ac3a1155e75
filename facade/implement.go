package facade

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sync"
)

// implementations maps interface types to typed facade constructors.
var implementations = &implRegistry{
	ctors: make(map[reflect.Type]func(*Proxy) any),
}

type implRegistry struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]func(*Proxy) any
}

// Implement registers the typed facade constructor for interface I.
// A later registration for the same interface replaces the earlier one.
// It panics if I is not an interface type.
func Implement[I any](ctor func(*Proxy) I) {
	t := reflect.TypeFor[I]()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("facade: Implement called with non-interface type %s", t))
	}
	implementations.mu.Lock()
	defer implementations.mu.Unlock()
	implementations.ctors[t] = func(p *Proxy) any { return ctor(p) }
}

// Implemented reports whether a typed facade is registered for iface.
func Implemented(iface reflect.Type) bool {
	_, ok := implementationFor(iface)
	return ok
}

func implementationFor(iface reflect.Type) (func(*Proxy) any, bool) {
	implementations.mu.RLock()
	defer implementations.mu.RUnlock()
	ctor, ok := implementations.ctors[iface]
	return ctor, ok
}

// Result returns out[i] as T. A missing or nil result yields T's zero
// value; a result of another type panics.
func Result[T any](out []any, i int) T {
	var zero T
	if i >= len(out) || out[i] == nil {
		return zero
	}
	v, ok := out[i].(T)
	if !ok {
		panic(fmt.Sprintf("facade: result %d is %T, not %s", i, out[i], reflect.TypeFor[T]()))
	}
	return v
}

// Must returns out, panicking with err unchanged if it is non-nil. Typed
// facades use it for interface methods that have no error result. A
// *PanicError is unwrapped so the original panic value is raised again.
func Must(out []any, err error) []any {
	if err != nil {
		var pe *PanicError
		if stderrors.As(err, &pe) {
			panic(pe.Value)
		}
		panic(err)
	}
	return out
}
