// Package transport provides a TCP connection adapter for the producer core.
//
// The wire format is a minimal text framing in the STOMP style: a command
// line, header lines, a blank line, the body and a NUL terminator. The
// adapter performs a CONNECT/CONNECTED handshake and then writes one SEND
// frame per message. It implements the connection and dialer ports consumed
// by the producer; swap it out to target a different broker protocol.
//
// All connection-level failures are reported as transport errors so the
// delivery path rotates endpoint groups instead of surfacing them.
package transport
