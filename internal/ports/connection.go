package ports

import (
	"context"

	"github.com/bft-labs/mqship/internal/domain"
)

// Connection is one live link to a broker. Implementations handle wire-level
// framing and socket I/O; the producer core never sees either.
//
// Connection-level failures (dial, handshake, socket write) must be reported
// as *domain.TransportError so the delivery path can distinguish them from
// logical errors: transport errors trigger endpoint rotation, logical errors
// propagate to the caller unretried.
type Connection interface {
	// Connect performs the protocol handshake with the given connect
	// headers. Called once, before the first Send.
	Connect(ctx context.Context, headers domain.Headers) error

	// Send transmits a single frame.
	Send(ctx context.Context, frame domain.Frame) error

	// Disconnect tears the link down. Safe to call more than once.
	Disconnect() error
}

// Dialer builds a Connection for an endpoint group, trying the group's
// address alternatives in order and returning the first that accepts.
// The returned Connection has not performed the protocol handshake yet.
type Dialer interface {
	Dial(ctx context.Context, group domain.EndpointGroup) (Connection, error)
}
