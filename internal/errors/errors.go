// Package errors defines stable error codes for sqlport failure modes.
// Codes distinguish fatal input errors, which propagate to the caller,
// from collaborator and cache errors, which the orchestrator recovers
// from locally.
package errors

import "fmt"

// ErrorCode represents stable error codes for all failure modes.
type ErrorCode string

const (
	// InputInvalid indicates a malformed source unit; fatal, not retried.
	InputInvalid ErrorCode = "INPUT_INVALID"
	// AIUnavailable indicates the conversion collaborator could not be reached.
	AIUnavailable ErrorCode = "AI_UNAVAILABLE"
	// AIMalformed indicates the collaborator returned unparseable output.
	AIMalformed ErrorCode = "AI_MALFORMED"
	// AITimeout indicates the conversion call exceeded its deadline.
	AITimeout ErrorCode = "AI_TIMEOUT"
	// CacheUnavailable indicates the durable cache tier failed; recovered as a miss.
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// ConfigInvalid indicates a bad configuration value.
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected failure.
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error carries a stable code, a human-readable message, and the
// underlying cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the ErrorCode from err, walking the wrap chain.
// Unknown errors report InternalError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*Error); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}
