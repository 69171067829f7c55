package http

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a Resource or Params value cannot be
	// constructed from the given input, such as an unknown verb.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionFailed is returned when an operation is called before the
	// state it depends on has been established.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrTransportFailure is wrapped by TransportError. It is never returned by
	// Request.Execute; callers reach it through Response.Err.
	ErrTransportFailure = errors.New("transport failure")

	// ErrDecodeFailure is wrapped by Response.DecodeErr when the body could not
	// be decoded in the requested format.
	ErrDecodeFailure = errors.New("decode failure")
)

// TransportError describes a failed transport call carried by a Response.
type TransportError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error %d: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match ErrTransportFailure.
func (e *TransportError) Unwrap() error {
	return ErrTransportFailure
}
