// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// InvalidArgument wraps a formatted message in ErrInvalidArgument.
func InvalidArgument(format string, args ...any) *Error {
	return WrapError(ErrInvalidArgument, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Input errors
	ErrInvalidArgument = &Error{Code: "INVALID_ARGUMENT", Message: "invalid argument"}
	ErrNoData          = &Error{Code: "NO_DATA", Message: "no data available"}

	// Result errors. A degenerate result is reported, never returned from Backtest.
	ErrDegenerateResult = &Error{Code: "DEGENERATE_RESULT", Message: "degenerate result"}

	// Storage errors
	ErrStorageFailed = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
