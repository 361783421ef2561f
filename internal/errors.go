package internal

import (
	"errors"
	"net/http"
)

var (
	// ErrNoActiveFrame is returned when a call needs a frame and none is
	// bound, the frame was terminated, or it has no request in flight.
	ErrNoActiveFrame = errors.New("openframe: no active frame")

	// ErrNilConn is returned by Handle when it is given no connection.
	ErrNilConn = errors.New("openframe: nil connection")

	// ErrCoordinatorClosed is returned by a coordinator that no longer admits work.
	ErrCoordinatorClosed = errors.New("openframe: coordinator closed")

	// ErrDatabaseInit wraps a failure of the database initializer.
	ErrDatabaseInit = errors.New("openframe: database initialization failed")
)

// HTTPError is a handler error that carries its own status code.
type HTTPError struct {
	// Err is logged, never sent to the client.
	Err     error
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

// Wrap attaches an underlying error and returns e.
func (e *HTTPError) Wrap(err error) *HTTPError {
	e.Err = err
	return e
}

func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func ErrUnprocessable(message string) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message)
}

func ErrServiceUnavailable(message string) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}
