package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned by a Store when no values exist for a session id.
	ErrNotFound = errors.New("session: not found")

	// ErrEmptyID is returned when a store operation is attempted without an id.
	ErrEmptyID = errors.New("session: empty id")

	// ErrEncode is returned when session values cannot be serialized.
	ErrEncode = errors.New("session: failed to encode values")

	// ErrDecode is returned when stored session values cannot be deserialized.
	ErrDecode = errors.New("session: failed to decode values")
)
