package producer

import (
	"context"
	"sync"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// fakeConn records sends and consumes scripted errors.
type fakeConn struct {
	mu sync.Mutex

	connectErr     error
	connectHeaders domain.Headers
	sendErrs       []error // consumed one per Send; nil means success
	sent           []domain.Frame
	disconnects    int

	onSend func(domain.Frame)
}

func (c *fakeConn) Connect(_ context.Context, headers domain.Headers) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectHeaders = headers
	return c.connectErr
}

func (c *fakeConn) Send(_ context.Context, frame domain.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sendErrs) > 0 {
		err := c.sendErrs[0]
		c.sendErrs = c.sendErrs[1:]
		if err != nil {
			return err
		}
	}
	c.sent = append(c.sent, frame)
	if c.onSend != nil {
		c.onSend(frame)
	}
	return nil
}

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return nil
}

func (c *fakeConn) sentDestinations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, f := range c.sent {
		out[i] = f.Destination
	}
	return out
}

func (c *fakeConn) sentBodies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, f := range c.sent {
		out[i] = string(f.Body)
	}
	return out
}

// fakeDialer hands out one fakeConn per group name and records dial order.
type fakeDialer struct {
	mu       sync.Mutex
	conns    map[string]*fakeConn
	dialErrs map[string]error
	dials    []string
}

func newFakeDialer(groups ...string) *fakeDialer {
	d := &fakeDialer{
		conns:    make(map[string]*fakeConn),
		dialErrs: make(map[string]error),
	}
	for _, g := range groups {
		d.conns[g] = &fakeConn{}
	}
	return d
}

func (d *fakeDialer) Dial(_ context.Context, group domain.EndpointGroup) (ports.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials = append(d.dials, group.Name)
	if err := d.dialErrs[group.Name]; err != nil {
		return nil, err
	}
	conn, ok := d.conns[group.Name]
	if !ok {
		conn = &fakeConn{}
		d.conns[group.Name] = conn
	}
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dials)
}

func groups(names ...string) []domain.EndpointGroup {
	out := make([]domain.EndpointGroup, 0, len(names))
	for _, n := range names {
		out = append(out, domain.EndpointGroup{
			Name:      n,
			Endpoints: []domain.Endpoint{{Host: n, Port: 61613}},
		})
	}
	return out
}

func totalSends(d *fakeDialer) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.conns {
		c.mu.Lock()
		n += len(c.sent)
		c.mu.Unlock()
	}
	return n
}
