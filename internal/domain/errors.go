package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by the public API; check with errors.Is / errors.As.
var (
	// ErrCommitUnderflow is returned when Commit is called without a
	// matching Begin. The depth counter is left unchanged.
	ErrCommitUnderflow = errors.New("mqship: commit without matching begin")

	// ErrScopedTransaction is returned when an explicit flush is attempted
	// from inside a scoped transaction, where it would escape rollback.
	ErrScopedTransaction = errors.New("mqship: explicit flush inside scoped transaction")

	// ErrNoEndpointGroups is returned when a producer is built or updated
	// with an empty endpoint group list.
	ErrNoEndpointGroups = errors.New("mqship: no endpoint groups configured")
)

// SerializationError reports a body that could not be converted to bytes.
// The frame is never queued or sent.
type SerializationError struct {
	Cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("mqship: serialize body: %v", e.Cause)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

// ValidationError reports a transformed message that failed validation.
// Cause carries the validator's own error when it raised one, or nil when it
// returned a plain negative result.
type ValidationError struct {
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Cause == nil {
		return "mqship: message rejected by validator"
	}
	return fmt.Sprintf("mqship: message rejected by validator: %v", e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// TransportError reports a connection-level failure from a connection
// implementation. The delivery path retries these by rotating endpoint
// groups; they never surface to the producer's caller directly.
type TransportError struct {
	// Op names the failing operation: "dial", "connect" or "send".
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mqship: transport %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// NewTransportError wraps cause as a transport-level failure of op.
func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, Cause: cause}
}

// IsTransport reports whether err is (or wraps) a transport-level failure,
// as opposed to a logical error that must not be retried.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
