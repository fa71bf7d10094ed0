package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionClosed is returned when the peer closes the stream before
	// a complete value has been received. The stream has no resynchronization
	// marker, so the connection is unusable afterwards.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrNoEndpoint is returned by Dial when no remote endpoint is configured.
	ErrNoEndpoint = errors.New("remote endpoint not set")

	// ErrMalformedString is returned for a string whose length prefix is zero,
	// too large, or whose bytes are not NUL terminated.
	ErrMalformedString = errors.New("malformed string")
)

// TransportError describes a failure of the underlying stream. Every
// TransportError is fatal for the session that observed it.
type TransportError struct {
	// Op names the primitive that failed, e.g. "send int", "receive string".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err originates from the stream rather than
// from a remote operation.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
