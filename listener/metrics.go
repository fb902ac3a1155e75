package listener

import (
	"context"

	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/observability"
)

// Metrics records facade calls on OpenTelemetry instruments.
type Metrics struct {
	metrics *observability.Metrics
}

// NewMetrics creates a Metrics listener.
func NewMetrics(m *observability.Metrics) *Metrics {
	return &Metrics{metrics: m}
}

func (m *Metrics) BeforeMethodCall(inv *facade.Invocation) error {
	m.metrics.RecordCallStart(context.Background(), facadeName(inv), inv.Method.Name)
	return nil
}

func (m *Metrics) AfterMethodCall(inv *facade.Invocation) error {
	m.metrics.RecordCallEnd(context.Background(), facadeName(inv), inv.Method.Name,
		observability.StatusSuccess, inv.Duration)
	return nil
}

func (m *Metrics) OnMethodFailure(inv *facade.Invocation) error {
	ctx := context.Background()
	name := facadeName(inv)
	m.metrics.RecordCallEnd(ctx, name, inv.Method.Name, observability.StatusFailure, inv.Duration)
	m.metrics.RecordFailure(ctx, name, inv.Method.Name, errorCode(inv.Err))
	return nil
}

var _ facade.Listener = (*Metrics)(nil)
