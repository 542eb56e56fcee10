package producer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// selector holds the ordered endpoint group list, the index of the currently
// selected group and the single live connection. Connections are built
// lazily; Advance only discards state, the next Current call reconnects.
//
// The mutex exists for the config watcher, which may call Update from its
// own goroutine while the owning goroutine is sending.
type selector struct {
	dialer         ports.Dialer
	connectHeaders domain.Headers
	log            zerolog.Logger

	mu       sync.Mutex
	groups   []domain.EndpointGroup
	idx      int
	conn     ports.Connection
	breakers map[string]*gobreaker.CircuitBreaker
	breaking bool
}

func newSelector(groups []domain.EndpointGroup, dialer ports.Dialer, connectHeaders domain.Headers, breaking bool, log zerolog.Logger) *selector {
	s := &selector{
		dialer:         dialer,
		connectHeaders: connectHeaders,
		log:            log,
		groups:         groups,
		breaking:       breaking,
	}
	if breaking {
		s.breakers = make(map[string]*gobreaker.CircuitBreaker, len(groups))
	}
	return s
}

// Current returns the live connection, lazily dialing and handshaking the
// group at the current index if none exists. Failures are transport errors.
func (s *selector) Current(ctx context.Context) (ports.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	if len(s.groups) == 0 {
		return nil, domain.ErrNoEndpointGroups
	}

	group := s.groups[s.idx]
	conn, err := s.dial(ctx, group)
	if err != nil {
		return nil, err
	}

	headers := group.MergedConnectHeaders(s.connectHeaders)
	if err := conn.Connect(ctx, headers); err != nil {
		_ = conn.Disconnect()
		return nil, err
	}

	s.log.Debug().Str("group", group.Name).Msg("connected")
	s.conn = conn
	return conn, nil
}

func (s *selector) dial(ctx context.Context, group domain.EndpointGroup) (ports.Connection, error) {
	if !s.breaking {
		return s.dialer.Dial(ctx, group)
	}

	// One breaker per group: a group that keeps refusing dials fails fast
	// so the rotation moves on without burning a connect timeout.
	cb := s.breakers[group.Name]
	if cb == nil {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    group.Name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
		s.breakers[group.Name] = cb
	}

	v, err := cb.Execute(func() (any, error) {
		return s.dialer.Dial(ctx, group)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.NewTransportError("dial", err)
		}
		return nil, err
	}
	return v.(ports.Connection), nil
}

// Advance discards the live connection and moves to the next endpoint group,
// wrapping around the list. It does not reconnect; the next Current does.
func (s *selector) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked()
	if len(s.groups) > 0 {
		s.idx = (s.idx + 1) % len(s.groups)
		s.log.Info().Str("group", s.groups[s.idx].Name).Msg("advanced to next endpoint group")
	}
}

// Update atomically replaces the endpoint group list, dropping the live
// connection and restarting selection from the head of the new list.
func (s *selector) Update(groups []domain.EndpointGroup) error {
	if len(groups) == 0 {
		return domain.ErrNoEndpointGroups
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked()
	s.groups = groups
	s.idx = 0
	return nil
}

// Close tears down the live connection, if any.
func (s *selector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Disconnect()
	s.conn = nil
	return err
}

func (s *selector) dropLocked() {
	if s.conn != nil {
		_ = s.conn.Disconnect()
		s.conn = nil
	}
}

// groupCount returns the current number of endpoint groups.
func (s *selector) groupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}
