package facade

import (
	"fmt"
	"reflect"

	"github.com/kbukum/atlas/errors"
)

// TargetMethodInvoker delegates to the like-named method of the target
// handle. The handle's method must have exactly the interface method's
// signature. An error returned by the handle is passed through unchanged.
type TargetMethodInvoker struct{}

func (TargetMethodInvoker) Invoke(target Target, m Method, args []any) ([]any, error) {
	handle := reflect.ValueOf(target.Handle())
	if !handle.IsValid() {
		return nil, errors.MethodNotFound(target.Name(), m.Name)
	}
	fn := handle.MethodByName(m.Name)
	if !fn.IsValid() {
		return nil, errors.MethodNotFound(target.Name(), m.Name)
	}
	if fn.Type() != m.Type {
		return nil, errors.SignatureMismatch(target.Name(), m.Name, m.Type.String(), fn.Type().String())
	}
	return CallMethod(fn, m, args)
}

// CallMethod calls fn, which must have m's signature, with args and splits
// the trailing error from the results. A variadic tail is passed as one
// slice argument.
func CallMethod(fn reflect.Value, m Method, args []any) ([]any, error) {
	in, err := callArgs(m, args)
	if err != nil {
		return nil, err
	}
	var out []reflect.Value
	if m.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	return splitResults(m, out)
}

func callArgs(m Method, args []any) ([]reflect.Value, error) {
	if len(args) != m.NumIn() {
		return nil, errors.InvalidInput("args",
			fmt.Sprintf("%s takes %d arguments, got %d", m, m.NumIn(), len(args)))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := m.Type.In(i)
		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, errors.InvalidInput("args",
				fmt.Sprintf("%s argument %d: %s is not assignable to %s", m, i, v.Type(), want))
		}
		in[i] = v
	}
	return in, nil
}

func splitResults(m Method, out []reflect.Value) ([]any, error) {
	n := len(out)
	if m.ReturnsError() {
		n--
		if errv := out[n]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
	}
	results := make([]any, n)
	for i := range n {
		results[i] = out[i].Interface()
	}
	return results, nil
}

// resolveInvokers binds every method to the first MethodExtension that
// accepts it, falling back to TargetMethodInvoker.
func resolveInvokers(cfg *Configuration, methods []Method) map[string]MethodInvoker {
	extensions := Extensions[MethodExtension](cfg)
	invokers := make(map[string]MethodInvoker, len(methods))
	for _, m := range methods {
		invokers[m.Name] = resolveInvoker(extensions, m)
	}
	return invokers
}

func resolveInvoker(extensions []MethodExtension, m Method) MethodInvoker {
	for _, ext := range extensions {
		if ext.Test(m) {
			return ext
		}
	}
	return TargetMethodInvoker{}
}
