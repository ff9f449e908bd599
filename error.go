package wcollama

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Application error codes.
const (
	ECONFIG   = "config"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	ENETWORK  = "network"
	ETIMEOUT  = "timeout"
	ECANCELED = "canceled"
	EBACKEND  = "backend"
	EINTERNAL = "internal"
)

// Error represents an application-specific error. Code maps to one of the
// constants above; Message is human readable and safe to return to the host.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("wcollama error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// TransportError classifies an error returned while talking to the backend.
// Deadlines become ETIMEOUT with the message "timeout", cancellation becomes
// ECANCELED and everything else is ENETWORK. Application errors pass through.
func TransportError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Errorf(ETIMEOUT, "timeout")
	}
	if errors.Is(err, context.Canceled) {
		return Errorf(ECANCELED, "canceled")
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Errorf(ETIMEOUT, "timeout")
	}
	return Errorf(ENETWORK, "backend unreachable: %v", err)
}
