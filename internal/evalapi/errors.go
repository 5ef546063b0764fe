package evalapi

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a JSON body that does not match the
// response envelope.
var ErrMalformedResponse = errors.New("malformed response envelope")

// TransportError indicates the call did not produce a usable response:
// network failure, timeout, non-JSON body or a malformed envelope.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError indicates the service answered with a failure, either
// success:false or an HTTP error status. Message may be empty.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	if e.StatusCode >= 400 {
		return fmt.Sprintf("%s: service error (HTTP %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: service error: %s", e.Op, msg)
}
