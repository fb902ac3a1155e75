package facade

import (
	"reflect"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/logger"
)

// Atlas builds facades from a Configuration.
type Atlas struct {
	configuration *Configuration
	log           *logger.Logger
}

// New creates an Atlas over a fresh Configuration.
func New() *Atlas {
	return NewWithConfiguration(NewConfiguration())
}

// NewWithConfiguration creates an Atlas over cfg, registering an
// EmptyRetryer unless cfg already carries a RetryerContext.
func NewWithConfiguration(cfg *Configuration) *Atlas {
	if cfg == nil {
		cfg = NewConfiguration()
	}
	if _, ok := GetContext[RetryerContext](cfg); !ok {
		cfg.RegisterContext(RetryerContext{Retryer: EmptyRetryer{}})
	}
	return &Atlas{configuration: cfg, log: logger.Get("facade")}
}

// Listener registers a call listener.
func (a *Atlas) Listener(l Listener) *Atlas {
	a.configuration.RegisterExtension(l)
	return a
}

// Extension registers an extension, usually a MethodExtension.
func (a *Atlas) Extension(ext Extension) *Atlas {
	a.configuration.RegisterExtension(ext)
	return a
}

// Context registers a context, replacing any context of the same kind.
func (a *Atlas) Context(ctx any) *Atlas {
	a.configuration.RegisterContext(ctx)
	return a
}

// WithLogger replaces the logger used for build diagnostics.
func (a *Atlas) WithLogger(log *logger.Logger) *Atlas {
	a.log = log
	return a
}

// Configuration returns the shared Configuration.
func (a *Atlas) Configuration() *Configuration { return a.configuration }

// Proxy builds the untyped facade of iface over target, registering target
// as the TargetContext of the shared Configuration.
func (a *Atlas) Proxy(target Target, iface reflect.Type) (*Proxy, error) {
	return a.proxy(a.configuration, target, iface)
}

func (a *Atlas) proxy(cfg *Configuration, target Target, iface reflect.Type) (*Proxy, error) {
	if target == nil {
		return nil, errors.InvalidInput("target", "target is nil")
	}
	methods, err := MethodsOf(iface)
	if err != nil {
		return nil, err
	}
	cfg.RegisterContext(TargetContext{Target: target})

	h := newHandler(cfg, target, methods)
	a.log.Debug("facade built", logger.Fields(
		logger.FieldFacade, iface.String(),
		logger.FieldTarget, target.Name(),
		"methods", len(methods),
		"listeners", len(h.notifier.listeners),
	))
	return &Proxy{iface: iface, handler: h}, nil
}

// Build builds the typed facade of iface over target and returns it as
// any. It is meant for strategies that build nested facades for a method's
// result type while a call is dispatched: the facade gets its own
// Configuration layered over the shared one, so the shared Configuration
// is only read.
func (a *Atlas) Build(target Target, iface reflect.Type) (any, error) {
	return a.build(a.configuration.derive(), target, iface)
}

func (a *Atlas) build(cfg *Configuration, target Target, iface reflect.Type) (any, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, errors.InvalidInput("interface", "facade type must be an interface")
	}
	ctor, ok := implementationFor(iface)
	if !ok {
		return nil, errors.NoImplementation(iface.String())
	}
	p, err := a.proxy(cfg, target, iface)
	if err != nil {
		return nil, err
	}
	return ctor(p), nil
}

// Create builds a facade of interface I over target.
func Create[I any](a *Atlas, target Target) (I, error) {
	var zero I
	v, err := a.build(a.configuration, target, reflect.TypeFor[I]())
	if err != nil {
		return zero, err
	}
	return v.(I), nil
}

// CreateNamed builds a facade of interface I over handle, displayed as name.
func CreateNamed[I any](a *Atlas, name string, handle any) (I, error) {
	return Create[I](a, NewTarget(name, handle))
}

// CreateFor builds a facade of interface I over handle, displayed under
// the interface's own name.
func CreateFor[I any](a *Atlas, handle any) (I, error) {
	return CreateNamed[I](a, reflect.TypeFor[I]().Name(), handle)
}
