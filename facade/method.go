package facade

import (
	"reflect"

	"github.com/kbukum/atlas/errors"
)

var errorType = reflect.TypeFor[error]()

// Method describes one method of a facade interface.
type Method struct {
	// Interface is the interface type declaring the method.
	Interface reflect.Type
	// Name is the method name.
	Name string
	// Index is the method's position in the interface's method set.
	Index int
	// Type is the method signature without a receiver.
	Type reflect.Type
}

// String returns the qualified method name, e.g. "Greeter.Greet".
func (m Method) String() string {
	if m.Interface != nil && m.Interface.Name() != "" {
		return m.Interface.Name() + "." + m.Name
	}
	return m.Name
}

// NumIn returns the number of arguments, counting a variadic tail as one.
func (m Method) NumIn() int { return m.Type.NumIn() }

// IsVariadic reports whether the last argument is variadic.
func (m Method) IsVariadic() bool { return m.Type.IsVariadic() }

// ReturnsError reports whether the last result is an error.
func (m Method) ReturnsError() bool {
	n := m.Type.NumOut()
	return n > 0 && m.Type.Out(n-1) == errorType
}

// Results returns the result types, excluding a trailing error.
func (m Method) Results() []reflect.Type {
	n := m.Type.NumOut()
	if m.ReturnsError() {
		n--
	}
	out := make([]reflect.Type, n)
	for i := range n {
		out[i] = m.Type.Out(i)
	}
	return out
}

// MethodsOf lists the methods of an interface type in method-set order.
func MethodsOf(iface reflect.Type) ([]Method, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, errors.InvalidInput("interface", "facade type must be an interface")
	}
	methods := make([]Method, iface.NumMethod())
	for i := range methods {
		rm := iface.Method(i)
		methods[i] = Method{Interface: iface, Name: rm.Name, Index: i, Type: rm.Type}
	}
	return methods, nil
}
