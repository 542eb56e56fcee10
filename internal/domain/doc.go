// Package domain contains the core domain entities and value objects for mqship.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (sockets, logging, configuration)
// and contains only the data model and its invariants.
//
// # Entities
//
//   - [Frame]: One outbound message unit (ordered headers, body, destination)
//   - [Buffer]: An ordered sequence of frames deferred by an open transaction
//   - [EndpointGroup]: One failover-equivalent set of broker addresses
//
// Domain entities are free of I/O, immutable after construction where
// practical, and testable without mocks or external systems.
package domain
