package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mqship/internal/domain"
)

func newTestDelivery(d *fakeDialer, maxAttempts int, names ...string) *delivery {
	sel := newTestSelector(d, false, names...)
	return newDelivery(sel, time.Millisecond, 2*time.Millisecond, maxAttempts, zerolog.Nop())
}

func TestDeliverRotatesOnTransportFailure(t *testing.T) {
	d := newFakeDialer("a", "b")
	d.conns["a"].sendErrs = []error{domain.NewTransportError("send", errors.New("reset"))}
	del := newTestDelivery(d, 0, "a", "b")

	err := del.deliver(context.Background(), domain.NewFrame("/q", nil, nil, []byte("x")))
	require.NoError(t, err, "the A failure must not surface once B accepts")

	assert.Equal(t, []string{"a", "b"}, d.dials)
	assert.Empty(t, d.conns["a"].sent)
	assert.Equal(t, []string{"/q"}, d.conns["b"].sentDestinations())
}

func TestDeliverRotatesOnDialFailure(t *testing.T) {
	d := newFakeDialer("a", "b")
	d.dialErrs["a"] = domain.NewTransportError("dial", errors.New("refused"))
	del := newTestDelivery(d, 0, "a", "b")

	err := del.deliver(context.Background(), domain.NewFrame("/q", nil, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"/q"}, d.conns["b"].sentDestinations())
}

func TestDeliverDoesNotRetryLogicalErrors(t *testing.T) {
	d := newFakeDialer("a", "b")
	logical := errors.New("malformed frame")
	d.conns["a"].sendErrs = []error{logical}
	del := newTestDelivery(d, 0, "a", "b")

	err := del.deliver(context.Background(), domain.NewFrame("/q", nil, nil, nil))
	assert.ErrorIs(t, err, logical)
	assert.Equal(t, []string{"a"}, d.dials, "logical errors must not rotate endpoints")
}

func TestDeliverWrapsAroundGroups(t *testing.T) {
	d := newFakeDialer("a", "b")
	// both groups fail once; the wrap back to A succeeds
	d.conns["a"].sendErrs = []error{domain.NewTransportError("send", errors.New("x"))}
	d.conns["b"].sendErrs = []error{domain.NewTransportError("send", errors.New("y"))}
	del := newTestDelivery(d, 0, "a", "b")

	err := del.deliver(context.Background(), domain.NewFrame("/q", nil, nil, []byte("m")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, d.dials)
	assert.Equal(t, []string{"m"}, d.conns["a"].sentBodies())
}

func TestDeliverHonorsMaxAttempts(t *testing.T) {
	d := newFakeDialer("a")
	d.dialErrs["a"] = domain.NewTransportError("dial", errors.New("down"))
	del := newTestDelivery(d, 3, "a")

	err := del.deliver(context.Background(), domain.NewFrame("/q", nil, nil, nil))
	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	assert.Equal(t, 3, d.dialCount())
}

func TestDeliverStopsOnCancelledContext(t *testing.T) {
	d := newFakeDialer("a")
	d.dialErrs["a"] = domain.NewTransportError("dial", errors.New("down"))
	del := newTestDelivery(d, 0, "a")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := del.deliver(ctx, domain.NewFrame("/q", nil, nil, nil))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
