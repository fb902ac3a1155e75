package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeMethodNotFound indicates the target handle has no method for an interface method.
	ErrCodeMethodNotFound ErrorCode = "METHOD_NOT_FOUND"
	// ErrCodeSignatureMismatch indicates the target method's signature differs from the interface method.
	ErrCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"
	// ErrCodeNoImplementation indicates no typed implementation is registered for an interface.
	ErrCodeNoImplementation ErrorCode = "NO_IMPLEMENTATION"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the caller supplied invalid input.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates a settings file failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Execution errors
const (
	// ErrCodeTimeout indicates a wait or retry loop ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCircuitOpen indicates a circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeConditionNotMet indicates a condition did not match within its timeout.
	ErrCodeConditionNotMet ErrorCode = "CONDITION_NOT_MET"
	// ErrCodeNotFound indicates a located child could not be found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeCircuitOpen: true,
	ErrCodeNotFound:    true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
