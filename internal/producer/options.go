package producer

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// Option configures optional behavior of a Producer.
type Option func(*options)

type options struct {
	logger         zerolog.Logger
	serializer     ports.Serializer
	transformers   []TransformerSpec
	defaultHeaders domain.Headers
	connectHeaders domain.Headers
	backoffBase    time.Duration
	backoffMax     time.Duration
	maxAttempts    int
	breaker        bool
}

func defaultOptions() options {
	return options{
		logger:      zerolog.Nop(),
		serializer:  passthroughSerializer{},
		backoffBase: 500 * time.Millisecond,
		backoffMax:  10 * time.Second,
	}
}

// WithLogger sets the logger. If not provided, logging is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithSerializer replaces the default passthrough serializer, which accepts
// only byte slices and strings.
func WithSerializer(s ports.Serializer) Option {
	return func(o *options) { o.serializer = s }
}

// WithTransformers sets the transformer pipeline applied by SendProcessed.
// Specs are resolved once, at construction; unknown names fail New.
func WithTransformers(specs ...TransformerSpec) Option {
	return func(o *options) { o.transformers = append(o.transformers, specs...) }
}

// WithDefaultHeaders sets headers merged under every frame's caller headers.
func WithDefaultHeaders(h domain.Headers) Option {
	return func(o *options) { o.defaultHeaders = h }
}

// WithConnectHeaders sets producer-wide connect headers. Group-specific
// connect headers are merged on top, group values winning.
func WithConnectHeaders(h domain.Headers) Option {
	return func(o *options) { o.connectHeaders = h }
}

// WithRetryBackoff tunes the delay between full rotations of the endpoint
// group list during delivery.
func WithRetryBackoff(base, max time.Duration) Option {
	return func(o *options) {
		o.backoffBase = base
		o.backoffMax = max
	}
}

// WithMaxAttempts caps delivery attempts per frame. Zero, the default,
// preserves unbounded rotation; termination is then the caller's context.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithCircuitBreaker enables a per-group circuit breaker around dialing, so
// a group that keeps refusing connections is skipped without waiting out its
// connect timeout on every rotation.
func WithCircuitBreaker() Option {
	return func(o *options) { o.breaker = true }
}
