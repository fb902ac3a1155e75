package facadetest

import (
	"sync"

	"github.com/kbukum/atlas/facade"
)

// Event is one listener notification captured by a Recorder.
type Event struct {
	Kind   string // "before", "after" or "failure"
	Method string
	Args   []any
	Result []any
	Err    error
}

// Recorder is a Listener that records every notification it receives.
// Its hooks can be made to fail to exercise listener error handling.
type Recorder struct {
	name string

	mu     sync.Mutex
	events []Event
	log    *[]string

	FailBefore  error
	FailAfter   error
	FailFailure error
}

// NewRecorder creates a Recorder. name prefixes the entries of Events.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// SharedLog makes the recorder also append its entries to log, so several
// recorders can be checked for relative ordering.
func (r *Recorder) SharedLog(log *[]string) *Recorder {
	r.log = log
	return r
}

func (r *Recorder) BeforeMethodCall(inv *facade.Invocation) error {
	r.record(Event{Kind: "before", Method: inv.Method.Name, Args: inv.Args})
	return r.FailBefore
}

func (r *Recorder) AfterMethodCall(inv *facade.Invocation) error {
	r.record(Event{Kind: "after", Method: inv.Method.Name, Args: inv.Args, Result: inv.Result})
	return r.FailAfter
}

func (r *Recorder) OnMethodFailure(inv *facade.Invocation) error {
	r.record(Event{Kind: "failure", Method: inv.Method.Name, Args: inv.Args, Err: inv.Err})
	return r.FailFailure
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.log != nil {
		*r.log = append(*r.log, r.name+":"+e.Kind+":"+e.Method)
	}
}

// Recorded returns a copy of the captured events.
func (r *Recorder) Recorded() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Events returns the captured events as "name:kind:method" strings.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = r.name + ":" + e.Kind + ":" + e.Method
	}
	return out
}

// Count returns how many events of kind were captured.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards the captured events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var _ facade.Listener = (*Recorder)(nil)
