// Package schema holds the shared vocabulary crossing package
// boundaries: the structured error type and its codes.
package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeRender     = "RENDER_ERROR"
	ErrCodeGuard      = "GUARD_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeStore      = "STORE_ERROR"
	ErrCodeIO         = "IO_ERROR"
)

// Error is the structured error type for all stateviz operations.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Machine string         `json:"machine,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Machine != "" {
		return fmt.Sprintf("[%s] machine %s: %s", e.Code, e.Machine, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMachine attaches a machine name to the error.
func (e *Error) WithMachine(machine string) *Error {
	e.Machine = machine
	return e
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}
