// Unified error handling for the breadboard EEPROM programmer
//
// The programmer distinguishes exactly two failure classes: precondition
// violations (caller bugs, never retried) and transport failures (serial
// sink errors, fatal for the session). Both propagate unhandled to main,
// which maps them to a non-zero exit.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Precondition violations (caller bugs)
	ErrAddressOverflow ErrorCode = "PRECONDITION_ADDRESS"
	ErrChannelRange    ErrorCode = "PRECONDITION_CHANNEL"
	ErrBaudRange       ErrorCode = "PRECONDITION_BAUD"

	// Transport failures (serial sink errors, device disconnect)
	ErrTransport ErrorCode = "TRANSPORT"
)

// ProgError is the unified error type for the programmer
type ProgError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface
func (e *ProgError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ProgError) Unwrap() error {
	return e.Err
}

// New creates a new ProgError
func New(code ErrorCode, message string) *ProgError {
	return &ProgError{
		Code:    code,
		Message: message,
	}
}

// Preconditionf creates a precondition violation with a formatted message
func Preconditionf(code ErrorCode, format string, args ...interface{}) *ProgError {
	return New(code, fmt.Sprintf(format, args...))
}

// Transport wraps a sink error as a transport failure
func Transport(op string, err error) *ProgError {
	return &ProgError{
		Code:    ErrTransport,
		Message: op,
		Err:     err,
	}
}

// IsPrecondition reports whether err is a precondition violation of any kind
func IsPrecondition(err error) bool {
	var pe *ProgError
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Code {
	case ErrAddressOverflow, ErrChannelRange, ErrBaudRange:
		return true
	}
	return false
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code ErrorCode) bool {
	var pe *ProgError
	return errors.As(err, &pe) && pe.Code == code
}
