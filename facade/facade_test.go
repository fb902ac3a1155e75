package facade_test

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/facadetest"
)

// --- test interfaces and their typed facades ---

type Greeter interface {
	Greet() (string, error)
}

type greeterFacade struct{ p *facade.Proxy }

func (f *greeterFacade) Greet() (string, error) {
	out, err := f.p.Invoke("Greet")
	if err != nil {
		return "", err
	}
	return facade.Result[string](out, 0), nil
}

type Repository interface {
	Count() int
	Format(format string, args ...any) string
	Load(id int) (string, error)
	Save(name string) error
}

type repositoryFacade struct{ p *facade.Proxy }

func (f *repositoryFacade) Count() int {
	out := facade.Must(f.p.Invoke("Count"))
	return facade.Result[int](out, 0)
}

func (f *repositoryFacade) Format(format string, args ...any) string {
	out := facade.Must(f.p.Invoke("Format", format, args))
	return facade.Result[string](out, 0)
}

func (f *repositoryFacade) Load(id int) (string, error) {
	out, err := f.p.Invoke("Load", id)
	if err != nil {
		return "", err
	}
	return facade.Result[string](out, 0), nil
}

func (f *repositoryFacade) Save(name string) error {
	_, err := f.p.Invoke("Save", name)
	return err
}

type Unimplemented interface {
	Nothing()
}

func init() {
	facade.Implement(func(p *facade.Proxy) Greeter { return &greeterFacade{p} })
	facade.Implement(func(p *facade.Proxy) Repository { return &repositoryFacade{p} })
}

// --- handles ---

type greeterHandle struct {
	reply string
	err   error
	calls int
}

func (h *greeterHandle) Greet() (string, error) {
	h.calls++
	return h.reply, h.err
}

type repoHandle struct {
	saved []string
}

func (r *repoHandle) Count() int { return len(r.saved) }

func (r *repoHandle) Format(format string, args ...any) string { return fmt.Sprintf(format, args...) }

func (r *repoHandle) Load(id int) (string, error) { return fmt.Sprintf("item-%d", id), nil }

func (r *repoHandle) Save(name string) error {
	r.saved = append(r.saved, name)
	return nil
}

type wrongGreeter struct{}

func (wrongGreeter) Greet(loud bool) string { return "hi" }

// --- delegation ---

func TestCreate_GreetDelegatesToTarget(t *testing.T) {
	l := facadetest.NewRecorder("L")
	atlas := facade.New().Listener(l)

	g, err := facade.Create[Greeter](atlas, facade.NewTarget("x", &greeterHandle{reply: "hi"}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := g.Greet()
	if err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if got != "hi" {
		t.Errorf("expected 'hi', got %q", got)
	}

	events := l.Recorded()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %v", l.Events())
	}
	if events[0].Kind != "before" || events[1].Kind != "after" {
		t.Errorf("expected before then after, got %v", l.Events())
	}
	if len(events[1].Result) != 1 || events[1].Result[0] != "hi" {
		t.Errorf("expected after to carry result 'hi', got %v", events[1].Result)
	}
}

func TestCreate_GreetPropagatesTargetError(t *testing.T) {
	boom := stderrors.New("boom")
	l := facadetest.NewRecorder("L")
	atlas := facade.New().Listener(l)

	g, err := facade.Create[Greeter](atlas, facade.NewTarget("x", &greeterHandle{err: boom}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = g.Greet()
	if err != boom {
		t.Fatalf("expected the identical error, got %v", err)
	}

	events := l.Recorded()
	if len(events) != 2 || events[0].Kind != "before" || events[1].Kind != "failure" {
		t.Fatalf("expected before then failure, got %v", l.Events())
	}
	if events[1].Err != boom {
		t.Errorf("expected failure event to carry boom, got %v", events[1].Err)
	}
	if l.Count("after") != 0 {
		t.Error("after must not fire for a failing call")
	}
}

func TestCreate_DelegatesEveryMethodWithoutStrategies(t *testing.T) {
	handle := &repoHandle{}
	repo, err := facade.CreateNamed[Repository](facade.New(), "repo", handle)
	if err != nil {
		t.Fatalf("CreateNamed: %v", err)
	}

	if err := repo.Save("a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save("b"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n := repo.Count(); n != 2 {
		t.Errorf("expected Count 2, got %d", n)
	}
	if s, _ := repo.Load(7); s != "item-7" {
		t.Errorf("expected item-7, got %q", s)
	}
	if s := repo.Format("%s=%d", "n", 3); s != "n=3" {
		t.Errorf("expected variadic delegation 'n=3', got %q", s)
	}
	if s := repo.Format("plain"); s != "plain" {
		t.Errorf("expected empty variadic tail to work, got %q", s)
	}
}

func TestCreateFor_UsesInterfaceName(t *testing.T) {
	atlas := facade.New()
	if _, err := facade.CreateFor[Greeter](atlas, &greeterHandle{}); err != nil {
		t.Fatalf("CreateFor: %v", err)
	}
	tc, ok := facade.GetContext[facade.TargetContext](atlas.Configuration())
	if !ok {
		t.Fatal("expected a TargetContext to be registered")
	}
	if tc.Target.Name() != "Greeter" {
		t.Errorf("expected display name 'Greeter', got %q", tc.Target.Name())
	}
}

func TestCreate_Errors(t *testing.T) {
	atlas := facade.New()

	if _, err := facade.Create[Unimplemented](atlas, facade.NewTarget("x", nil)); !errors.HasCode(err, errors.ErrCodeNoImplementation) {
		t.Errorf("expected NO_IMPLEMENTATION, got %v", err)
	}
	if _, err := facade.Create[*repoHandle](atlas, facade.NewTarget("x", nil)); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for non-interface type, got %v", err)
	}
	if _, err := facade.Create[Greeter](atlas, nil); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for nil target, got %v", err)
	}
}

// --- resolution ---

func TestResolve_FirstMatchWins(t *testing.T) {
	s1 := &facadetest.Strategy{Name: "S1", Match: facadetest.MatchName("Save")}
	s2 := &facadetest.Strategy{Name: "S2"}
	atlas := facade.New().Extension(s1).Extension(s2)

	p, err := atlas.Proxy(facade.NewTarget("repo", &repoHandle{}), reflect.TypeFor[Repository]())
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}

	if inv, _ := p.InvokerFor("Save"); inv != s1 {
		t.Errorf("expected Save bound to S1, got %v", inv)
	}
	for _, name := range []string{"Count", "Format", "Load"} {
		if inv, _ := p.InvokerFor(name); inv != s2 {
			t.Errorf("expected %s bound to S2, got %v", name, inv)
		}
	}
}

func TestResolve_FirstRegisteredWinsWhenBothMatch(t *testing.T) {
	a := &facadetest.Strategy{Name: "A", Results: []any{"from A"}}
	b := &facadetest.Strategy{Name: "B", Results: []any{"from B"}}
	atlas := facade.New().Extension(a).Extension(b)

	g, err := facade.CreateFor[Greeter](atlas, &greeterHandle{reply: "target"})
	if err != nil {
		t.Fatalf("CreateFor: %v", err)
	}
	got, _ := g.Greet()
	if got != "from A" {
		t.Errorf("expected 'from A', got %q", got)
	}
	if b.Calls() != 0 {
		t.Errorf("B must never be invoked, got %d calls", b.Calls())
	}
}

func TestResolve_DefaultWhenNoStrategyMatches(t *testing.T) {
	none := &facadetest.Strategy{Match: facadetest.MatchName("Missing")}
	atlas := facade.New().Extension(none).Listener(facadetest.NewRecorder("L"))

	p, err := atlas.Proxy(facade.NewTarget("repo", &repoHandle{}), reflect.TypeFor[Repository]())
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	methods := p.Methods()
	if len(methods) != 4 {
		t.Fatalf("expected 4 methods, got %d", len(methods))
	}
	for _, m := range methods {
		inv, ok := p.InvokerFor(m.Name)
		if !ok {
			t.Fatalf("method %s has no binding", m)
		}
		if _, isDefault := inv.(facade.TargetMethodInvoker); !isDefault {
			t.Errorf("expected %s bound to TargetMethodInvoker, got %T", m, inv)
		}
	}
}

func TestBinding_UnaffectedByLaterExtensions(t *testing.T) {
	atlas := facade.New()
	g, err := facade.CreateFor[Greeter](atlas, &greeterHandle{reply: "target"})
	if err != nil {
		t.Fatalf("CreateFor: %v", err)
	}

	atlas.Extension(&facadetest.Strategy{Results: []any{"late"}})

	got, _ := g.Greet()
	if got != "target" {
		t.Errorf("expected existing facade to keep its binding, got %q", got)
	}
}

// --- default invoker failures ---

func TestTargetMethodInvoker_MissingMethodFailsAtCallTime(t *testing.T) {
	l := facadetest.NewRecorder("L")
	atlas := facade.New().Listener(l)

	g, err := facade.CreateNamed[Greeter](atlas, "empty", struct{}{})
	if err != nil {
		t.Fatalf("construction must succeed even without a matching method: %v", err)
	}
	_, err = g.Greet()
	if !errors.HasCode(err, errors.ErrCodeMethodNotFound) {
		t.Fatalf("expected METHOD_NOT_FOUND, got %v", err)
	}
	if l.Count("failure") != 1 {
		t.Errorf("expected one failure notification, got %v", l.Events())
	}
}

func TestTargetMethodInvoker_SignatureMismatch(t *testing.T) {
	g, err := facade.CreateNamed[Greeter](facade.New(), "wrong", wrongGreeter{})
	if err != nil {
		t.Fatalf("CreateNamed: %v", err)
	}
	if _, err := g.Greet(); !errors.HasCode(err, errors.ErrCodeSignatureMismatch) {
		t.Errorf("expected SIGNATURE_MISMATCH, got %v", err)
	}
}

func TestMust_PanicsWithOriginalError(t *testing.T) {
	repo, err := facade.CreateNamed[Repository](facade.New(), "empty", struct{}{})
	if err != nil {
		t.Fatalf("CreateNamed: %v", err)
	}

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok {
			t.Fatalf("expected an error panic, got %v", rec)
		}
		if !errors.HasCode(err, errors.ErrCodeMethodNotFound) {
			t.Errorf("expected METHOD_NOT_FOUND, got %v", err)
		}
	}()
	repo.Count()
}

type panickingRepo struct {
	repoHandle
	panics int
}

func (r *panickingRepo) Count() int {
	if r.panics > 0 {
		r.panics--
		panic("boom")
	}
	return len(r.saved)
}

func TestPanic_IsACallFailure(t *testing.T) {
	l := facadetest.NewRecorder("L")
	retryer := &facadetest.CountingRetryer{}
	atlas := facade.New().Listener(l).Context(facade.RetryerContext{Retryer: retryer})
	repo, err := facade.CreateNamed[Repository](atlas, "repo", &panickingRepo{panics: 1})
	if err != nil {
		t.Fatalf("CreateNamed: %v", err)
	}

	var rec any
	func() {
		defer func() { rec = recover() }()
		repo.Count()
	}()
	if rec != "boom" {
		t.Fatalf("expected the original panic value, got %v", rec)
	}

	want := []string{"L:before:Count", "L:failure:Count"}
	if !reflect.DeepEqual(l.Events(), want) {
		t.Errorf("expected %v, got %v", want, l.Events())
	}
	var pe *facade.PanicError
	if failed := l.Recorded()[1].Err; !stderrors.As(failed, &pe) || pe.Value != "boom" {
		t.Errorf("expected a PanicError carrying boom, got %v", failed)
	}
	if retryer.Calls() != 1 {
		t.Errorf("expected the retryer to see the call, got %d", retryer.Calls())
	}
}

func TestPanic_ReturnedFromProxyAndRetried(t *testing.T) {
	retryOnce := facade.RetryerFunc(func(call func() ([]any, error)) ([]any, error) {
		if out, err := call(); err == nil {
			return out, nil
		}
		return call()
	})
	atlas := facade.New().Context(facade.RetryerContext{Retryer: retryOnce})
	p, err := atlas.Proxy(facade.NewTarget("repo", &panickingRepo{panics: 2}), reflect.TypeFor[Repository]())
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}

	_, err = p.Invoke("Count")
	var pe *facade.PanicError
	if !stderrors.As(err, &pe) {
		t.Fatalf("expected a PanicError, got %v", err)
	}
	if pe.Method.Name != "Count" || len(pe.Stack) == 0 {
		t.Errorf("expected method and stack on the error, got %+v", pe)
	}

	out, err := p.Invoke("Count")
	if err != nil {
		t.Fatalf("expected the retry to recover, got %v", err)
	}
	if n := facade.Result[int](out, 0); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestProxy_InvokeValidation(t *testing.T) {
	l := facadetest.NewRecorder("L")
	atlas := facade.New().Listener(l)
	p, err := atlas.Proxy(facade.NewTarget("repo", &repoHandle{}), reflect.TypeFor[Repository]())
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}

	if _, err := p.Invoke("Unknown"); !errors.HasCode(err, errors.ErrCodeMethodNotFound) {
		t.Errorf("expected METHOD_NOT_FOUND for unknown method, got %v", err)
	}
	if len(l.Events()) != 0 {
		t.Errorf("unknown methods must not notify listeners, got %v", l.Events())
	}

	if _, err := p.Invoke("Load"); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for missing argument, got %v", err)
	}
	if _, err := p.Invoke("Load", "seven"); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for wrong argument type, got %v", err)
	}
	out, err := p.Invoke("Load", 3)
	if err != nil || facade.Result[string](out, 0) != "item-3" {
		t.Errorf("expected item-3, got %v, %v", out, err)
	}
	if p.String() != "repo" || p.Target().Name() != "repo" {
		t.Errorf("expected proxy to report its target name, got %q", p.String())
	}
}

// --- listeners ---

func TestListeners_NotifiedInRegistrationOrder(t *testing.T) {
	var log []string
	l1 := facadetest.NewRecorder("L1").SharedLog(&log)
	l2 := facadetest.NewRecorder("L2").SharedLog(&log)
	atlas := facade.New().Listener(l1).Listener(l2)

	g, _ := facade.CreateFor[Greeter](atlas, &greeterHandle{reply: "hi"})
	if _, err := g.Greet(); err != nil {
		t.Fatalf("Greet: %v", err)
	}

	want := []string{"L1:before:Greet", "L2:before:Greet", "L1:after:Greet", "L2:after:Greet"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestListeners_BeforeFailureAbortsCall(t *testing.T) {
	listenerErr := stderrors.New("listener failed")
	l1 := facadetest.NewRecorder("L1")
	l1.FailBefore = listenerErr
	l2 := facadetest.NewRecorder("L2")
	handle := &greeterHandle{reply: "hi"}

	g, _ := facade.CreateFor[Greeter](facade.New().Listener(l1).Listener(l2), handle)
	_, err := g.Greet()
	if err != listenerErr {
		t.Fatalf("expected listener error, got %v", err)
	}
	if handle.calls != 0 {
		t.Errorf("target must not be called, got %d calls", handle.calls)
	}
	if len(l2.Events()) != 0 {
		t.Errorf("later listeners must be skipped, got %v", l2.Events())
	}
	if l1.Count("failure") != 0 {
		t.Error("listener failure must not trigger OnMethodFailure")
	}
}

func TestListeners_AfterFailureReplacesResult(t *testing.T) {
	listenerErr := stderrors.New("after failed")
	l := facadetest.NewRecorder("L")
	l.FailAfter = listenerErr

	g, _ := facade.CreateFor[Greeter](facade.New().Listener(l), &greeterHandle{reply: "hi"})
	_, err := g.Greet()
	if err != listenerErr {
		t.Fatalf("expected listener error, got %v", err)
	}
	if l.Count("failure") != 0 {
		t.Error("listener failure must not trigger OnMethodFailure")
	}
}

type invocationTracker struct {
	facade.BaseListener
	seen []*facade.Invocation
}

func (t *invocationTracker) BeforeMethodCall(inv *facade.Invocation) error {
	inv.Set("mark", inv.ID)
	t.seen = append(t.seen, inv)
	return nil
}

func (t *invocationTracker) AfterMethodCall(inv *facade.Invocation) error {
	t.seen = append(t.seen, inv)
	return nil
}

func TestInvocation_SharedAcrossHooks(t *testing.T) {
	tracker := &invocationTracker{}
	g, _ := facade.CreateFor[Greeter](facade.New().Listener(tracker), &greeterHandle{reply: "hi"})
	if _, err := g.Greet(); err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if _, err := g.Greet(); err != nil {
		t.Fatalf("Greet: %v", err)
	}

	if len(tracker.seen) != 4 {
		t.Fatalf("expected 4 hook calls, got %d", len(tracker.seen))
	}
	first, second := tracker.seen[0], tracker.seen[2]
	if tracker.seen[1] != first {
		t.Error("expected before and after to receive the same invocation")
	}
	if first == second || first.ID == second.ID {
		t.Error("expected a fresh invocation per call")
	}
	if first.ID == "" || first.Value("mark") != first.ID {
		t.Errorf("expected listener-private value to survive, got %v", first.Value("mark"))
	}
	if first.State != facade.StateSuccess {
		t.Errorf("expected state success, got %s", first.State)
	}
	if first.Method.String() != "Greeter.Greet" {
		t.Errorf("expected method Greeter.Greet, got %s", first.Method)
	}
}

// --- retry ---

func retryUpTo(n int) facade.Retryer {
	return facade.RetryerFunc(func(call func() ([]any, error)) ([]any, error) {
		var (
			out []any
			err error
		)
		for range n {
			if out, err = call(); err == nil {
				return out, nil
			}
		}
		return nil, err
	})
}

func TestRetry_DefaultRetryerCallsOnce(t *testing.T) {
	boom := stderrors.New("boom")
	s := &facadetest.Strategy{Err: boom}
	g, _ := facade.CreateFor[Greeter](facade.New().Extension(s), &greeterHandle{})

	if _, err := g.Greet(); err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if s.Calls() != 1 {
		t.Errorf("expected exactly one invocation, got %d", s.Calls())
	}
}

func TestRetry_SucceedsOnNthAttempt(t *testing.T) {
	s := &facadetest.Strategy{Err: stderrors.New("flaky"), FailTimes: 2, Results: []any{"ok"}}
	l := facadetest.NewRecorder("L")
	atlas := facade.New().
		Extension(s).
		Listener(l).
		Context(facade.RetryerContext{Retryer: retryUpTo(3)})

	g, _ := facade.CreateFor[Greeter](atlas, &greeterHandle{})
	got, err := g.Greet()
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got != "ok" {
		t.Errorf("expected 'ok', got %q", got)
	}
	if s.Calls() != 3 {
		t.Errorf("expected 3 attempts, got %d", s.Calls())
	}
	if l.Count("before") != 1 || l.Count("after") != 1 || l.Count("failure") != 0 {
		t.Errorf("expected one before and one after for the whole call, got %v", l.Events())
	}
}

func TestRetry_ExhaustionIsACallFailure(t *testing.T) {
	flaky := stderrors.New("flaky")
	s := &facadetest.Strategy{Err: flaky, FailTimes: 5}
	l := facadetest.NewRecorder("L")
	atlas := facade.New().Extension(s).Listener(l).Context(facade.RetryerContext{Retryer: retryUpTo(2)})

	g, _ := facade.CreateFor[Greeter](atlas, &greeterHandle{})
	if _, err := g.Greet(); err != flaky {
		t.Fatalf("expected flaky, got %v", err)
	}
	if l.Count("failure") != 1 || l.Count("after") != 0 {
		t.Errorf("expected a single failure notification, got %v", l.Events())
	}
}

func TestRetry_RetryerResolvedPerCall(t *testing.T) {
	atlas := facade.New()
	g, _ := facade.CreateFor[Greeter](atlas, &greeterHandle{reply: "hi"})

	counting := &facadetest.CountingRetryer{}
	atlas.Context(facade.RetryerContext{Retryer: counting})

	if _, err := g.Greet(); err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if counting.Calls() != 1 {
		t.Errorf("expected the active retryer to be consulted once, got %d", counting.Calls())
	}
}

// --- configuration ---

func TestNewWithConfiguration_KeepsRegisteredRetryer(t *testing.T) {
	cfg := facade.NewConfiguration()
	counting := &facadetest.CountingRetryer{}
	cfg.RegisterContext(facade.RetryerContext{Retryer: counting})

	facade.NewWithConfiguration(cfg)

	rc, _ := facade.GetContext[facade.RetryerContext](cfg)
	if rc.Retryer != counting {
		t.Errorf("expected the registered retryer to be kept, got %T", rc.Retryer)
	}
}

func TestNew_RegistersEmptyRetryer(t *testing.T) {
	atlas := facade.New()
	rc, ok := facade.GetContext[facade.RetryerContext](atlas.Configuration())
	if !ok {
		t.Fatal("expected a default RetryerContext")
	}
	if _, isEmpty := rc.Retryer.(facade.EmptyRetryer); !isEmpty {
		t.Errorf("expected EmptyRetryer, got %T", rc.Retryer)
	}
}

func TestBuild_LayersOverSharedConfiguration(t *testing.T) {
	atlas := facade.New()
	if _, err := facade.CreateNamed[Greeter](atlas, "top", &greeterHandle{reply: "hi"}); err != nil {
		t.Fatalf("CreateNamed: %v", err)
	}

	v, err := atlas.Build(facade.NewTarget("nested", &greeterHandle{reply: "inner"}), reflect.TypeFor[Greeter]())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tc, _ := facade.GetContext[facade.TargetContext](atlas.Configuration())
	if tc.Target.Name() != "top" {
		t.Errorf("Build must not replace the shared target, got %q", tc.Target.Name())
	}

	counting := &facadetest.CountingRetryer{}
	atlas.Context(facade.RetryerContext{Retryer: counting})
	if got, err := v.(Greeter).Greet(); err != nil || got != "inner" {
		t.Fatalf("expected inner, got %q, %v", got, err)
	}
	if counting.Calls() != 1 {
		t.Errorf("nested facades must see the shared Retryer, got %d calls", counting.Calls())
	}
}

func TestSharedConfiguration_TargetReplacedPerBuild(t *testing.T) {
	atlas := facade.New()
	first, _ := facade.CreateNamed[Greeter](atlas, "first", &greeterHandle{reply: "one"})
	second, _ := facade.CreateNamed[Greeter](atlas, "second", &greeterHandle{reply: "two"})

	tc, _ := facade.GetContext[facade.TargetContext](atlas.Configuration())
	if tc.Target.Name() != "second" {
		t.Errorf("expected latest target in context, got %q", tc.Target.Name())
	}

	a, _ := first.Greet()
	b, _ := second.Greet()
	if a != "one" || b != "two" {
		t.Errorf("expected each facade to keep its own target, got %q and %q", a, b)
	}
}
