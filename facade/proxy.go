package facade

import (
	"reflect"
	"sort"
)

// Proxy is the untyped facade for one interface and target. Typed facade
// implementations forward their methods to Invoke.
type Proxy struct {
	iface   reflect.Type
	handler *Handler
}

// Invoke calls the named interface method with args. A variadic tail is
// passed as a single slice argument.
func (p *Proxy) Invoke(name string, args ...any) ([]any, error) {
	return p.handler.Invoke(name, args)
}

// Interface returns the facade's interface type.
func (p *Proxy) Interface() reflect.Type { return p.iface }

// Target returns the wrapped target.
func (p *Proxy) Target() Target { return p.handler.target }

// Methods returns the interface methods in method-set order.
func (p *Proxy) Methods() []Method {
	methods := make([]Method, 0, len(p.handler.methods))
	for _, m := range p.handler.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Index < methods[j].Index })
	return methods
}

// InvokerFor returns the invoker bound to the named method.
func (p *Proxy) InvokerFor(name string) (MethodInvoker, bool) {
	inv, ok := p.handler.invokers[name]
	return inv, ok
}

// String returns the target's display name.
func (p *Proxy) String() string { return p.handler.target.Name() }
