package domain

import (
	"net"
	"strconv"
)

// Endpoint is one broker address within a group.
type Endpoint struct {
	Host string
	Port int
}

// Addr returns the host:port form of the endpoint.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// EndpointGroup is one failover-equivalent broker cluster: an ordered list of
// address alternatives plus connect headers specific to this group. The
// producer holds an ordered list of groups; the order is the failover order.
type EndpointGroup struct {
	// Name identifies the group in logs and circuit breaker state.
	Name string

	Endpoints []Endpoint

	// ConnectHeaders are merged over the producer-wide connect headers
	// when the handshake for this group is performed, group values winning.
	ConnectHeaders Headers
}

// MergedConnectHeaders unions producer-wide defaults with the group's own
// connect headers, group-specific values taking precedence.
func (g EndpointGroup) MergedConnectHeaders(defaults Headers) Headers {
	return defaults.Merge(g.ConnectHeaders)
}
