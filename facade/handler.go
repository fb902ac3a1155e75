package facade

import (
	"fmt"
	"runtime/debug"

	"github.com/kbukum/atlas/errors"
)

// PanicError is the call failure recorded when an invoker or target panics.
type PanicError struct {
	Method Method
	// Value is the value passed to panic.
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Method, e.Value)
}

// Unwrap returns Value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Handler dispatches calls for one facade. Its binding and listener
// snapshot are fixed at construction; the Retryer is looked up in the
// Configuration on every call.
type Handler struct {
	config   *Configuration
	target   Target
	methods  map[string]Method
	invokers map[string]MethodInvoker
	notifier *listenerNotifier
}

func newHandler(cfg *Configuration, target Target, methods []Method) *Handler {
	byName := make(map[string]Method, len(methods))
	for _, m := range methods {
		byName[m.Name] = m
	}
	return &Handler{
		config:   cfg,
		target:   target,
		methods:  byName,
		invokers: resolveInvokers(cfg, methods),
		notifier: newListenerNotifier(Extensions[Listener](cfg)),
	}
}

// Invoke dispatches the named method. Unknown names fail before any
// listener is notified.
func (h *Handler) Invoke(name string, args []any) ([]any, error) {
	m, ok := h.methods[name]
	if !ok {
		return nil, errors.MethodNotFound(h.target.Name(), name)
	}
	return h.dispatch(m, args)
}

func (h *Handler) dispatch(m Method, args []any) ([]any, error) {
	inv := newInvocation(h.target, m, args)
	inv.State = StateDispatching
	if err := h.notifier.beforeMethodCall(inv); err != nil {
		return nil, err
	}

	invoker := h.invokers[m.Name]
	result, err := h.retryer().Invoke(func() ([]any, error) {
		return invokeRecovered(invoker, h.target, m, args)
	})
	if err != nil {
		inv.fail(err)
		if lerr := h.notifier.onMethodFailure(inv); lerr != nil {
			return nil, lerr
		}
		return nil, err
	}

	inv.succeed(result)
	if lerr := h.notifier.afterMethodCall(inv); lerr != nil {
		return nil, lerr
	}
	return result, nil
}

func (h *Handler) retryer() Retryer {
	if rc, ok := GetContext[RetryerContext](h.config); ok && rc.Retryer != nil {
		return rc.Retryer
	}
	return EmptyRetryer{}
}

func invokeRecovered(invoker MethodInvoker, target Target, m Method, args []any) (out []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Method: m, Value: r, Stack: debug.Stack()}
		}
	}()
	return invoker.Invoke(target, m, args)
}
