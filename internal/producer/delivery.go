package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/mqship/internal/domain"
)

// delivery performs one logical send, retrying across endpoint groups on
// transport failure. It never retries a logical error: a frame the broker
// link itself rejects as malformed would fail forever.
type delivery struct {
	sel  *selector
	back *backoff
	log  zerolog.Logger

	// maxAttempts caps total attempts when positive; zero preserves the
	// unbounded rotation, leaving termination to ctx cancellation.
	maxAttempts int
}

func newDelivery(sel *selector, base, max time.Duration, maxAttempts int, log zerolog.Logger) *delivery {
	return &delivery{
		sel:         sel,
		back:        newBackoff(base, max),
		log:         log,
		maxAttempts: maxAttempts,
	}
}

// deliver sends frame through the current connection, rotating endpoint
// groups on transport failure. It returns nil on success, ctx.Err() on
// cancellation, and the original error for logical failures.
func (d *delivery) deliver(ctx context.Context, frame domain.Frame) error {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := d.attempt(ctx, frame)
		if err == nil {
			d.back.Reset()
			return nil
		}
		if !domain.IsTransport(err) {
			return err
		}

		attempts++
		if d.maxAttempts > 0 && attempts >= d.maxAttempts {
			return fmt.Errorf("mqship: delivery failed after %d attempts: %w", attempts, err)
		}

		d.log.Warn().Err(err).Str("destination", frame.Destination).Msg("transport failure, rotating endpoint group")
		d.sel.Advance()

		// Back off once per full pass over the group list so a single
		// flapping group does not delay failover to a healthy one.
		if n := d.sel.groupCount(); n > 0 && attempts%n == 0 {
			if serr := d.back.Sleep(ctx); serr != nil {
				return serr
			}
		}
	}
}

func (d *delivery) attempt(ctx context.Context, frame domain.Frame) error {
	conn, err := d.sel.Current(ctx)
	if err != nil {
		return err
	}
	return conn.Send(ctx, frame)
}
