package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// Dialer builds TCP connections for endpoint groups, trying each address in
// a group in order and keeping the first that accepts.
type Dialer struct {
	// ConnectTimeout bounds the TCP dial and the CONNECT handshake.
	ConnectTimeout time.Duration

	// WriteTimeout bounds each frame write. Zero disables the deadline.
	WriteTimeout time.Duration

	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config
}

// DefaultDialer returns a Dialer with the default timeouts.
func DefaultDialer() *Dialer {
	return &Dialer{
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Dial tries the group's addresses in order and returns a connection for the
// first that accepts. All failures are transport errors.
func (d *Dialer) Dial(ctx context.Context, group domain.EndpointGroup) (ports.Connection, error) {
	if len(group.Endpoints) == 0 {
		return nil, domain.NewTransportError("dial", fmt.Errorf("group %q has no endpoints", group.Name))
	}

	dialer := &net.Dialer{Timeout: d.ConnectTimeout}

	var lastErr error
	for _, ep := range group.Endpoints {
		var (
			nc  net.Conn
			err error
		)
		if d.TLSConfig != nil {
			td := &tls.Dialer{NetDialer: dialer, Config: d.TLSConfig}
			nc, err = td.DialContext(ctx, "tcp", ep.Addr())
		} else {
			nc, err = dialer.DialContext(ctx, "tcp", ep.Addr())
		}
		if err != nil {
			lastErr = err
			continue
		}
		return &Conn{
			nc:             nc,
			r:              bufio.NewReader(nc),
			connectTimeout: d.ConnectTimeout,
			writeTimeout:   d.WriteTimeout,
		}, nil
	}
	return nil, domain.NewTransportError("dial", lastErr)
}

// Conn is one live TCP link to a broker.
type Conn struct {
	nc             net.Conn
	r              *bufio.Reader
	connectTimeout time.Duration
	writeTimeout   time.Duration

	mu     sync.Mutex
	closed bool
}

// Connect performs the CONNECT/CONNECTED handshake.
func (c *Conn) Connect(ctx context.Context, headers domain.Headers) error {
	var deadline time.Time
	if c.connectTimeout > 0 {
		deadline = time.Now().Add(c.connectTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := c.nc.SetDeadline(deadline); err != nil {
		return domain.NewTransportError("connect", err)
	}
	defer c.nc.SetDeadline(time.Time{})

	if err := writeFrame(c.nc, cmdConnect, headers, nil); err != nil {
		return domain.NewTransportError("connect", err)
	}

	command, respHeaders, _, err := readFrame(c.r)
	if err != nil {
		return domain.NewTransportError("connect", err)
	}
	switch command {
	case cmdConnected:
		return nil
	case cmdError:
		msg, _ := respHeaders.Get("message")
		return domain.NewTransportError("connect", fmt.Errorf("broker refused connection: %s", msg))
	default:
		return domain.NewTransportError("connect", fmt.Errorf("unexpected frame %q in handshake", command))
	}
}

// Send writes one SEND frame. The frame's headers already carry the
// normalized destination and content length.
func (c *Conn) Send(ctx context.Context, frame domain.Frame) error {
	if c.writeTimeout > 0 {
		deadline := time.Now().Add(c.writeTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := c.nc.SetWriteDeadline(deadline); err != nil {
			return domain.NewTransportError("send", err)
		}
		defer c.nc.SetWriteDeadline(time.Time{})
	}

	if err := writeFrame(c.nc, cmdSend, frame.Headers, frame.Body); err != nil {
		return domain.NewTransportError("send", err)
	}
	return nil
}

// Disconnect closes the link. Safe to call more than once.
func (c *Conn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}
