package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the structured error type raised by atlas.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// MethodNotFound reports that the target handle exposes no method named method.
func MethodNotFound(target, method string) *AppError {
	return &AppError{
		Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("target %q has no method %s", target, method),
		Details: map[string]any{"target": target, "method": method},
	}
}

// SignatureMismatch reports that the target method cannot stand in for the interface method.
func SignatureMismatch(target, method, want, got string) *AppError {
	return &AppError{
		Code:    ErrCodeSignatureMismatch,
		Message: fmt.Sprintf("target %q method %s has signature %s, want %s", target, method, got, want),
		Details: map[string]any{"target": target, "method": method, "want": want, "got": got},
	}
}

// NoImplementation reports that no typed facade implementation is registered for iface.
func NoImplementation(iface string) *AppError {
	return &AppError{
		Code:    ErrCodeNoImplementation,
		Message: fmt.Sprintf("no facade implementation registered for %s", iface),
		Details: map[string]any{"interface": iface},
	}
}

// InvalidInput creates a new AppError for invalid caller input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason), Details: details,
	}
}

// InvalidConfig creates a new AppError for a settings validation failure.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// Timeout creates a new AppError for an operation that ran out of time.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// CircuitOpen creates a new AppError for a call rejected by an open circuit.
func CircuitOpen(name string) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: fmt.Sprintf("circuit %q is open", name),
		Retryable: true, Details: map[string]any{"circuit": name},
	}
}

// ConditionNotMet creates a new AppError for a condition that did not match in time.
func ConditionNotMet(target, condition string) *AppError {
	return &AppError{
		Code:    ErrCodeConditionNotMet,
		Message: fmt.Sprintf("%s: expected %s", target, condition),
		Details: map[string]any{"target": target, "condition": condition},
	}
}

// NotFound creates a new AppError for a child that could not be located.
func NotFound(resource, locator string) *AppError {
	details := map[string]any{"resource": resource}
	if locator != "" {
		details["locator"] = locator
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		Retryable: true, Details: details,
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is safe to retry. Errors that are not
// AppErrors are considered retryable; the retry policy decides.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return err != nil
}
