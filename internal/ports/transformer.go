package ports

import "github.com/bft-labs/mqship/internal/domain"

// Message is one (headers, body) pair produced by a transformer, before it
// is built into a frame.
type Message struct {
	Headers domain.Headers
	Body    []byte
}

// Transformer expands arbitrary input into zero or more sendable messages.
// Implementations are resolved once at producer construction, either from a
// pre-built instance or from a registered name.
type Transformer interface {
	Transform(input any) ([]Message, error)
}

// Validator is an optional capability of a Transformer. When implemented,
// every message the transformer produces is validated before it reaches the
// send path. A false result or a non-nil error both reject the message; the
// producer wraps either uniformly as *domain.ValidationError, carrying the
// error as cause when one was returned.
type Validator interface {
	Validate(msg Message) (bool, error)
}
