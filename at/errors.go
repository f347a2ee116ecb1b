package at

import "errors"

var (
	// ErrTimeout is returned when a byte or a whole token did not arrive
	// within the wait budget or deadline of the operation.
	//
	// A timeout leaves the bytes consumed so far consumed. The device is
	// assumed recoverable: callers that want to retry repeat the whole
	// command exchange.
	ErrTimeout = errors.New("timed out waiting for device data")
)
