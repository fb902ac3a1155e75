package listener

import (
	"github.com/kbukum/atlas/facade"
	"github.com/kbukum/atlas/logger"
)

// Logging logs every facade call: starts and completions at debug level,
// failures at warn.
type Logging struct {
	log *logger.Logger
}

// NewLogging creates a Logging listener. A nil log uses the "facade"
// component logger.
func NewLogging(log *logger.Logger) *Logging {
	if log == nil {
		log = logger.Get("facade")
	}
	return &Logging{log: log}
}

func (l *Logging) BeforeMethodCall(inv *facade.Invocation) error {
	l.log.Debug("calling method", l.fields(inv))
	return nil
}

func (l *Logging) AfterMethodCall(inv *facade.Invocation) error {
	fields := logger.MergeWithDuration(l.fields(inv), inv.Duration)
	fields[logger.FieldStatus] = inv.State.String()
	l.log.Debug("method returned", fields)
	return nil
}

func (l *Logging) OnMethodFailure(inv *facade.Invocation) error {
	fields := logger.MergeWithDuration(l.fields(inv), inv.Duration)
	if inv.Err != nil {
		fields = logger.MergeWithError(fields, inv.Err)
	}
	fields[logger.FieldStatus] = inv.State.String()
	l.log.Warn("method failed", fields)
	return nil
}

func (l *Logging) fields(inv *facade.Invocation) map[string]interface{} {
	return logger.Fields(
		logger.FieldFacade, facadeName(inv),
		logger.FieldMethod, inv.Method.Name,
		logger.FieldInvocationID, inv.ID,
	)
}

var _ facade.Listener = (*Logging)(nil)
