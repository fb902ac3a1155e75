package facade

// Extension is anything registered in a Configuration's extension list.
// Capabilities are discovered by type: MethodExtension and Listener.
type Extension interface{}

// MethodInvoker executes one facade method against a target. The returned
// slice holds the method's results without the trailing error.
type MethodInvoker interface {
	Invoke(target Target, m Method, args []any) ([]any, error)
}

// MethodInvokerFunc adapts a function to MethodInvoker.
type MethodInvokerFunc func(target Target, m Method, args []any) ([]any, error)

func (f MethodInvokerFunc) Invoke(target Target, m Method, args []any) ([]any, error) {
	return f(target, m, args)
}

// MethodExtension is an invocation strategy that claims the methods
// accepted by Test.
type MethodExtension interface {
	MethodInvoker
	Test(m Method) bool
}

// Listener observes every dispatched call. A non-nil error aborts the call
// and is returned to the caller in place of the call's own outcome.
type Listener interface {
	BeforeMethodCall(inv *Invocation) error
	AfterMethodCall(inv *Invocation) error
	OnMethodFailure(inv *Invocation) error
}

// BaseListener implements Listener with no-ops. Embed it to override only
// the hooks you need.
type BaseListener struct{}

func (BaseListener) BeforeMethodCall(*Invocation) error { return nil }
func (BaseListener) AfterMethodCall(*Invocation) error  { return nil }
func (BaseListener) OnMethodFailure(*Invocation) error  { return nil }

// Retryer runs a call under a retry discipline. It may invoke call zero or
// more times and returns the outcome it settles on.
type Retryer interface {
	Invoke(call func() ([]any, error)) ([]any, error)
}

// RetryerFunc adapts a function to Retryer.
type RetryerFunc func(call func() ([]any, error)) ([]any, error)

func (f RetryerFunc) Invoke(call func() ([]any, error)) ([]any, error) { return f(call) }

// RetryerContext holds the active Retryer of a Configuration.
type RetryerContext struct {
	Retryer Retryer
}

// EmptyRetryer calls once and returns the outcome as-is.
type EmptyRetryer struct{}

func (EmptyRetryer) Invoke(call func() ([]any, error)) ([]any, error) { return call() }
