// Package listener provides facade listeners for logging, tracing and
// metrics.
//
//	atlas := facade.New().
//	    Listener(listener.NewLogging(logger.Get("checkout"))).
//	    Listener(listener.NewTracing(observability.Tracer()))
//
// All listeners here observe calls and never fail them.
package listener

import (
	"github.com/kbukum/atlas/errors"
	"github.com/kbukum/atlas/facade"
)

// errorCode returns the AppError code of err, or "UNKNOWN".
func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNKNOWN"
}

func facadeName(inv *facade.Invocation) string {
	if inv.Target == nil {
		return ""
	}
	return inv.Target.Name()
}
