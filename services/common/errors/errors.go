package errors

import (
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation returns a 400 error for a missing or malformed input field.
func Validation(message string, err error) *Error {
	return New(http.StatusBadRequest, message, err)
}

// NotFound returns a 404 error for an absent basket, product or order.
func NotFound(message string, err error) *Error {
	return New(http.StatusNotFound, message, err)
}

// Dependency returns a 502 error for a failed store or transport call.
// Always retryable by the caller.
func Dependency(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

// Internal returns a 500 error for everything else.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// IsRetryable reports whether the failure class allows the caller to retry
// the same request. Validation and not-found failures are terminal.
func (e *Error) IsRetryable() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusBadGateway
}
