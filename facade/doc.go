// Package facade builds values that satisfy an arbitrary interface by
// dispatching each interface method to an invocation strategy chosen from a
// pluggable extension chain, wrapped with a retry policy and lifecycle
// notifications.
//
// A Configuration holds contexts (one per kind, e.g. the RetryerContext) and
// an ordered list of extensions (MethodExtension strategies and Listeners).
// Atlas is the entry point that turns a Target into a facade:
//
//	atlas := facade.New().
//	    Listener(listener.NewLogging(log)).
//	    Extension(extension.ByName(saveInvoker, "Save")).
//	    Context(facade.RetryerContext{Retryer: resilience.NewPollingRetryer(cfg)})
//
//	page, err := facade.CreateNamed[LoginPage](atlas, "login page", driver)
//
// For every method of the interface the first MethodExtension whose Test
// accepts it is bound; methods no extension claims are delegated to the
// like-named method of the target handle (TargetMethodInvoker).
//
// # Typed facades
//
// Go cannot synthesise interface implementations at runtime, so each call
// is routed through a Proxy, and a small typed implementation forwards the
// interface's methods to Proxy.Invoke. These implementations are generated
// by facadegen (or written by hand) and registered with Implement:
//
//	func init() {
//	    facade.Implement(func(p *facade.Proxy) LoginPage { return &loginPageFacade{p} })
//	}
//
//	func (f *loginPageFacade) Title() (string, error) {
//	    out, err := f.p.Invoke("Title")
//	    if err != nil {
//	        return "", err
//	    }
//	    return facade.Result[string](out, 0), nil
//	}
//
// Methods without a trailing error result receive failures as a panic
// carrying the original error (see Must).
//
// # Call protocol
//
// Every call notifies BeforeMethodCall on each listener in registration
// order, runs the bound invoker through the active Retryer, then notifies
// exactly one of AfterMethodCall or OnMethodFailure. Errors from invokers,
// targets, retryers and listeners reach the caller unchanged.
//
// A Configuration is mutated only during setup. Building several facades
// from one Configuration replaces its TargetContext each time, so builds
// sharing a Configuration must not run concurrently. Nested facades built
// with Atlas.Build during a call use a Configuration layered over the
// shared one and never write to it.
//
// A panic raised by an invoker or target is recovered and treated as a
// call failure carrying a *PanicError: the Retryer sees it and
// OnMethodFailure fires. Must re-raises the original panic value.
package facade
