package extension

import (
	"github.com/kbukum/atlas/facade"
)

// Func is a MethodExtension built from a predicate and an invoker.
type Func struct {
	match func(facade.Method) bool
	call  facade.MethodInvokerFunc
}

// NewFunc creates a Func. A nil match claims every method.
func NewFunc(match func(facade.Method) bool, call facade.MethodInvokerFunc) *Func {
	return &Func{match: match, call: call}
}

// ByName creates a Func claiming the methods named names.
func ByName(call facade.MethodInvokerFunc, names ...string) *Func {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return NewFunc(func(m facade.Method) bool {
		_, ok := set[m.Name]
		return ok
	}, call)
}

func (f *Func) Test(m facade.Method) bool {
	return f.match == nil || f.match(m)
}

func (f *Func) Invoke(target facade.Target, m facade.Method, args []any) ([]any, error) {
	return f.call(target, m, args)
}

var _ facade.MethodExtension = (*Func)(nil)
