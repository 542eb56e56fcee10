package producer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// Producer accepts application messages and delivers them to one of several
// endpoint groups, either immediately or deferred inside a transaction.
//
// A Producer is built for single-goroutine use: callers serialize access to
// Send, Begin, Commit, Flush and InTransaction as a unit. UpdateGroups is
// the one exception; it is safe to call from another goroutine (the config
// watcher does).
type Producer struct {
	sel      *selector
	delivery *delivery
	buffer   *domain.Buffer

	// depth is the transaction nesting counter; depth > 0 means sends are
	// buffered. scoped counts nested InTransaction invocations and only
	// exists to forbid a manual Flush from escaping rollback.
	depth  int
	scoped int

	serializer     ports.Serializer
	transformers   []ports.Transformer
	defaultHeaders domain.Headers
	log            zerolog.Logger
}

// New creates a Producer delivering to groups through dialer, in failover
// order. At least one endpoint group is required.
func New(groups []domain.EndpointGroup, dialer ports.Dialer, opts ...Option) (*Producer, error) {
	if len(groups) == 0 {
		return nil, domain.ErrNoEndpointGroups
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	transformers, err := resolveTransformers(o.transformers)
	if err != nil {
		return nil, err
	}

	sel := newSelector(groups, dialer, o.connectHeaders, o.breaker, o.logger)
	return &Producer{
		sel:            sel,
		delivery:       newDelivery(sel, o.backoffBase, o.backoffMax, o.maxAttempts, o.logger),
		buffer:         domain.NewBuffer(),
		serializer:     o.serializer,
		transformers:   transformers,
		defaultHeaders: o.defaultHeaders,
		log:            o.logger,
	}, nil
}

// Send builds a frame from destination, headers and body and either buffers
// it (inside a transaction) or delivers it immediately. Buffered sends
// perform no transport I/O and cannot fail at this layer beyond
// serialization.
func (p *Producer) Send(ctx context.Context, destination string, headers domain.Headers, body any) error {
	data, err := p.serializer.Serialize(body)
	if err != nil {
		return err
	}

	frame := domain.NewFrame(destination, p.defaultHeaders, headers, data)
	if p.depth > 0 {
		p.buffer.Append(frame)
		p.log.Debug().Str("destination", frame.Destination).Int("buffered", p.buffer.Len()).Msg("frame buffered")
		return nil
	}
	return p.delivery.deliver(ctx, frame)
}

// SendProcessed runs input through the transformer pipeline and sends every
// resulting message to destination. Without a configured pipeline the input
// is sent as-is.
func (p *Producer) SendProcessed(ctx context.Context, destination string, input any) error {
	if len(p.transformers) == 0 {
		return p.Send(ctx, destination, nil, input)
	}

	msgs, err := applyTransformers(p.transformers, input)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if err := p.Send(ctx, destination, m.Headers, m.Body); err != nil {
			return err
		}
	}
	return nil
}

// Begin opens a transaction level. Sends are buffered until the matching
// Commit unwinds the nesting to zero. Begin never fails.
func (p *Producer) Begin() {
	p.depth++
}

// Commit closes one transaction level. The outermost Commit, and only it,
// flushes the buffer through the delivery path in FIFO order. Commit with no
// open transaction returns ErrCommitUnderflow and leaves the depth unchanged.
func (p *Producer) Commit(ctx context.Context) error {
	if p.depth == 0 {
		return domain.ErrCommitUnderflow
	}
	p.depth--
	if p.depth > 0 {
		return nil
	}
	return p.flush(ctx)
}

// Flush sends every buffered frame through the delivery path in FIFO order,
// then clears the buffer. It fails with ErrScopedTransaction when called
// from inside InTransaction, at any nesting depth, where it would bypass
// rollback.
func (p *Producer) Flush(ctx context.Context) error {
	if p.scoped > 0 {
		return domain.ErrScopedTransaction
	}
	return p.flush(ctx)
}

// flush drains the buffer head-first, removing each frame only after it has
// been delivered. A cancelled flush therefore leaves the unsent tail
// buffered for a future retry; delivered frames are not re-sent.
func (p *Producer) flush(ctx context.Context) error {
	n := p.buffer.Len()
	for {
		frame, ok := p.buffer.Head()
		if !ok {
			break
		}
		if err := p.delivery.deliver(ctx, frame); err != nil {
			return err
		}
		p.buffer.Pop()
	}
	if n > 0 {
		p.log.Debug().Int("frames", n).Msg("buffer flushed")
	}
	return nil
}

// InTransaction opens a transaction, runs work and commits. When work
// returns an error, frames it buffered are discarded, frames queued by an
// enclosing transaction before this scope are preserved, and the original
// error is returned unchanged. The transaction level is closed either way so
// Begin/Commit pairing stays consistent.
func (p *Producer) InTransaction(ctx context.Context, work func(ctx context.Context) error) error {
	p.Begin()
	p.scoped++
	snapshot := p.buffer.Snapshot()

	if err := work(ctx); err != nil {
		// Roll back: commit against a cleared buffer (a flush at the
		// outermost level then sends nothing), then restore the frames
		// that predate this scope.
		p.buffer.Clear()
		p.scoped--
		if cerr := p.Commit(ctx); cerr != nil {
			p.log.Error().Err(cerr).Msg("commit during rollback failed")
		}
		p.buffer.Restore(snapshot)
		return err
	}

	p.scoped--
	return p.Commit(ctx)
}

// Connect eagerly establishes the connection that a first Send would
// otherwise create lazily.
func (p *Producer) Connect(ctx context.Context) error {
	_, err := p.sel.Current(ctx)
	return err
}

// UpdateGroups atomically replaces the endpoint group list, dropping any
// live connection. Safe for concurrent use.
func (p *Producer) UpdateGroups(groups []domain.EndpointGroup) error {
	return p.sel.Update(groups)
}

// Close tears down the live connection. Buffered frames are not flushed.
func (p *Producer) Close() error {
	return p.sel.Close()
}

// Depth returns the current transaction nesting depth.
func (p *Producer) Depth() int { return p.depth }

// Buffered returns the number of frames waiting in the buffer.
func (p *Producer) Buffered() int { return p.buffer.Len() }
