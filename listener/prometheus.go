package listener

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/observability"
)

// Prometheus exports facade call counts and latencies as Prometheus
// collectors.
type Prometheus struct {
	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them on reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "atlas"
	}

	p := &Prometheus{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of facade calls.",
		}, []string{"facade", "method", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed facade calls by error code.",
		}, []string{"facade", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Facade call latency, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"facade", "method"}),
	}

	for _, c := range []prometheus.Collector{p.calls, p.failures, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) BeforeMethodCall(*facade.Invocation) error { return nil }

func (p *Prometheus) AfterMethodCall(inv *facade.Invocation) error {
	p.observe(inv, observability.StatusSuccess)
	return nil
}

func (p *Prometheus) OnMethodFailure(inv *facade.Invocation) error {
	p.observe(inv, observability.StatusFailure)
	p.failures.WithLabelValues(facadeName(inv), inv.Method.Name, errorCode(inv.Err)).Inc()
	return nil
}

func (p *Prometheus) observe(inv *facade.Invocation, status string) {
	name := facadeName(inv)
	p.calls.WithLabelValues(name, inv.Method.Name, status).Inc()
	p.duration.WithLabelValues(name, inv.Method.Name).Observe(inv.Duration.Seconds())
}

var _ facade.Listener = (*Prometheus)(nil)
