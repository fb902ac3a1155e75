// Package observability sets up OpenTelemetry tracing and metrics for
// facades.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("checkout"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("checkout"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("checkout"))
//	metrics.RecordCallEnd(ctx, "Repository", "Save", observability.StatusSuccess, d)
//
// The listener package turns these into facade listeners.
package observability
