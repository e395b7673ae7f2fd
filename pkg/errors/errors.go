// Package errors provides structured error types for the canister client.
//
// Every failure surfaced by the client carries one of a small set of codes so
// callers can branch on the kind of failure without string matching:
//
//   - CONFIGURATION: the client was asked for an operation its endpoint table
//     does not provide. This is a library/API-generation mismatch.
//   - DECODE: the API returned a payload that is malformed or missing a
//     required field.
//   - NOT_FOUND: a single-entity lookup returned nothing.
//   - TRANSPORT: the HTTP round trip failed. The original error stays
//     reachable through [errors.Unwrap] and errors.As.
//   - INVALID_INPUT: caller input was rejected before any request was made.
//
// # Usage
//
//	pkg, err := client.GetPackage(ctx, "com.example.tweak")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such package
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure kinds of the client.
const (
	ErrCodeConfiguration Code = "CONFIGURATION"
	ErrCodeDecode        Code = "DECODE"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeTransport     Code = "TRANSPORT"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Configuration returns a CONFIGURATION error.
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// Decode returns a DECODE error.
func Decode(format string, args ...any) *Error {
	return New(ErrCodeDecode, format, args...)
}

// NotFound returns a NOT_FOUND error.
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// Transport wraps cause as a TRANSPORT error.
func Transport(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeTransport, cause, format, args...)
}
