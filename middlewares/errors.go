package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TimeoutError represents a request timeout.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// IsPanicError reports whether err is a PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// IsTimeoutError reports whether err is a TimeoutError.
func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// ErrorHandler maps the errors of this package to responses: 504 for a
// timeout, 500 for a panic. Anything else returns nil so the default
// handling applies.
//
//	openframe.WithErrorHandler(middlewares.ErrorHandler)
func ErrorHandler(_ context.Context, err error) *httpmsg.Response {
	switch {
	case IsTimeoutError(err):
		return httpmsg.NewErrorResponse(http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout))
	case IsPanicError(err):
		return httpmsg.NewErrorResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
	return nil
}
