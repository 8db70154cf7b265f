// Package apperr defines the typed failure taxonomy returned by services.
// Every error carries a stable machine code so the front-end can localize
// messages instead of displaying backend prose.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a stable, translatable error identifier
type Code string

const (
	CodeInvalidState           Code = "INVALID_STATE"
	CodeInsufficientStock      Code = "INSUFFICIENT_STOCK"
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeNotFound               Code = "NOT_FOUND"
	CodeConcurrentModification Code = "CONCURRENT_MODIFICATION"
)

// Error is a typed service failure. Compare with errors.Is against the
// package sentinels; Message is human-readable context for logs and the UI.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so wrapped errors compare
// against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is checks
var (
	ErrInvalidState           = &Error{Code: CodeInvalidState, Message: "transition not permitted from current status"}
	ErrInsufficientStock      = &Error{Code: CodeInsufficientStock, Message: "adjustment would drive stock negative"}
	ErrValidation             = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrConcurrentModification = &Error{Code: CodeConcurrentModification, Message: "resource was modified concurrently"}
)

// InvalidState builds an INVALID_STATE failure
func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock builds an INSUFFICIENT_STOCK failure
func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a VALIDATION_ERROR failure
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NOT_FOUND failure
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Concurrent builds a CONCURRENT_MODIFICATION failure
func Concurrent(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConcurrentModification, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the machine code from err, or empty when err is not an
// application error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
