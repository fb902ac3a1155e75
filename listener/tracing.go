package listener

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/observability"
)

// Tracing records one span per completed facade call. When the first
// argument of the call is a context.Context the span is parented to it.
//
// The span is started and ended from the outcome hooks, timed by the
// invocation's start and duration, so a call aborted by a listener's
// BeforeMethodCall leaves no open span behind.
type Tracing struct {
	tracer     trace.Tracer
	recordArgs bool
}

// NewTracing creates a Tracing listener on tracer.
func NewTracing(tracer trace.Tracer) *Tracing {
	return &Tracing{tracer: tracer}
}

// RecordArgs adds the formatted call arguments to each span.
func (t *Tracing) RecordArgs() *Tracing {
	t.recordArgs = true
	return t
}

func (t *Tracing) BeforeMethodCall(*facade.Invocation) error { return nil }

func (t *Tracing) AfterMethodCall(inv *facade.Invocation) error {
	span := t.start(inv)
	span.SetStatus(codes.Ok, "")
	t.end(inv, span)
	return nil
}

func (t *Tracing) OnMethodFailure(inv *facade.Invocation) error {
	span := t.start(inv)
	span.SetAttributes(attribute.String(observability.AttrErrorCode, errorCode(inv.Err)))
	if inv.Err != nil {
		span.RecordError(inv.Err)
		span.SetStatus(codes.Error, inv.Err.Error())
	}
	t.end(inv, span)
	return nil
}

func (t *Tracing) start(inv *facade.Invocation) trace.Span {
	parent := context.Background()
	if len(inv.Args) > 0 {
		if ctx, ok := inv.Args[0].(context.Context); ok && ctx != nil {
			parent = ctx
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String(observability.AttrFacade, facadeName(inv)),
		attribute.String(observability.AttrMethod, inv.Method.Name),
		attribute.String(observability.AttrInvocationID, inv.ID),
		attribute.Int64(observability.AttrDurationMs, inv.Duration.Milliseconds()),
	}
	if t.recordArgs {
		attrs = append(attrs, attribute.String(observability.AttrArgs, fmt.Sprint(inv.Args...)))
	}

	_, span := t.tracer.Start(parent, inv.Method.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(inv.StartedAt),
		trace.WithAttributes(attrs...),
	)
	return span
}

func (t *Tracing) end(inv *facade.Invocation, span trace.Span) {
	span.End(trace.WithTimestamp(inv.StartedAt.Add(inv.Duration)))
}

var _ facade.Listener = (*Tracing)(nil)
