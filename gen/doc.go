// Package gen generates typed facades.
//
// A typed facade is a struct implementing an interface by forwarding each
// method to a facade.Proxy, registered with facade.Implement in an init
// function. For
//
//	type Greeter interface {
//	    Greet(name string) (string, error)
//	}
//
// gen writes
//
//	type greeterFacade struct{ p *facade.Proxy }
//
//	func (f *greeterFacade) Greet(p0 string) (string, error) {
//	    out, err := f.p.Invoke("Greet", p0)
//	    ...
//	}
//
//	func init() {
//	    facade.Implement(func(p *facade.Proxy) Greeter { return &greeterFacade{p} })
//	}
//
// into <package>_facade.go next to the interfaces. The facadegen command
// wraps Generate for use with go:generate.
package gen
