// Package errors provides the structured error type used by atlas.
// Errors raised by atlas itself (resolution gaps, signature mismatches,
// retry timeouts, condition failures) are *AppError values carrying a
// machine-readable code and retryable flag. Errors raised by targets,
// strategies and listeners are never wrapped in AppError by the dispatch
// pipeline; they reach the facade caller unchanged.
package errors
