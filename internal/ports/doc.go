// Package ports defines the interfaces that connect the producer core to
// infrastructure adapters.
//
// Ports are the boundaries between the core and the outside world. The
// producer (internal/producer) depends only on these interfaces; concrete
// implementations live in adapters such as pkg/transport.
//
// # Port Interfaces
//
//   - [Connection]: One live link to a broker (handshake, send, teardown)
//   - [Dialer]: Builds a Connection for an endpoint group
//   - [Serializer]: Converts message bodies to bytes
//   - [Transformer]: Expands arbitrary input into sendable messages
//
// This separation enables testing the transaction and failover logic with
// in-memory fakes, and swapping the wire protocol without touching the core.
package ports
