// Package mqship provides a transactional message producer with endpoint
// failover for brokered messaging.
//
// Example usage:
//
//	groups := []mqship.EndpointGroup{{
//	    Name:      "primary",
//	    Endpoints: []mqship.Endpoint{{Host: "broker-a", Port: 61613}},
//	}}
//	p, err := mqship.New(groups, transport.DefaultDialer())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	err = p.InTransaction(ctx, func(ctx context.Context) error {
//	    if err := p.Send(ctx, "/queue/orders", nil, payload); err != nil {
//	        return err
//	    }
//	    return p.Send(ctx, "/queue/audit", nil, payload)
//	})
//
// Sends inside a transaction are buffered and delivered in order by the
// outermost commit; a failing transaction body rolls its frames back.
// Delivery rotates through the configured endpoint groups on transport
// failure, so a frame is sent at least once after the transaction closes, or
// not at all if an error aborts it.
package mqship

import (
	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
	"github.com/bft-labs/mqship/internal/producer"
)

// Re-exported domain types.
type (
	// Frame is one outbound message unit.
	Frame = domain.Frame

	// Header is a single name/value pair.
	Header = domain.Header

	// Headers is an ordered header list.
	Headers = domain.Headers

	// Endpoint is one broker address.
	Endpoint = domain.Endpoint

	// EndpointGroup is one failover-equivalent set of broker addresses.
	EndpointGroup = domain.EndpointGroup
)

// Re-exported port interfaces for custom adapters.
type (
	// Connection is one live broker link.
	Connection = ports.Connection

	// Dialer builds a Connection for an endpoint group.
	Dialer = ports.Dialer

	// Serializer converts message bodies to bytes.
	Serializer = ports.Serializer

	// Transformer expands input into sendable messages.
	Transformer = ports.Transformer

	// Message is one (headers, body) pair produced by a transformer.
	Message = ports.Message
)

// Producer is the transactional buffering producer.
type Producer = producer.Producer

// Option configures optional producer behavior.
type Option = producer.Option

// TransformerSpec names a transformer by instance or registered name.
type TransformerSpec = producer.TransformerSpec

// Errors; see the domain package for the full taxonomy.
var (
	ErrCommitUnderflow   = domain.ErrCommitUnderflow
	ErrScopedTransaction = domain.ErrScopedTransaction
	ErrNoEndpointGroups  = domain.ErrNoEndpointGroups
)

// New creates a producer delivering to groups through dialer, in failover
// order.
func New(groups []EndpointGroup, dialer Dialer, opts ...Option) (*Producer, error) {
	return producer.New(groups, dialer, opts...)
}

// RegisterTransformer makes a transformer constructor resolvable by name.
func RegisterTransformer(name string, factory func() Transformer) {
	producer.RegisterTransformer(name, factory)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool { return domain.IsTransport(err) }

// Producer options, re-exported from the internal package.
var (
	WithLogger         = producer.WithLogger
	WithSerializer     = producer.WithSerializer
	WithTransformers   = producer.WithTransformers
	WithDefaultHeaders = producer.WithDefaultHeaders
	WithConnectHeaders = producer.WithConnectHeaders
	WithRetryBackoff   = producer.WithRetryBackoff
	WithMaxAttempts    = producer.WithMaxAttempts
	WithCircuitBreaker = producer.WithCircuitBreaker
)
