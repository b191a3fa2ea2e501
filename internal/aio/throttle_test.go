package aio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestThrottle(perMinute float64, burst int) (*throttle, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}

	t := newThrottle(perMinute, burst)
	t.now = clock.now
	t.lastDrip = clock.t

	return t, clock
}

func TestThrottleBurst(t *testing.T) {
	th, clock := newTestThrottle(60, 2)
	start := clock.t

	assert.Equal(t, start, th.next())
	assert.Equal(t, start, th.next())

	// out of credit: reservations queue one second apart
	assert.Equal(t, start.Add(time.Second), th.next())
	assert.Equal(t, start.Add(2*time.Second), th.next())
}

func TestThrottleRefills(t *testing.T) {
	th, clock := newTestThrottle(60, 2)
	start := clock.t

	th.next()
	th.next()

	clock.t = start.Add(1500 * time.Millisecond)
	assert.Equal(t, clock.t, th.next(), "1.5s of credit covers one publish")
	assert.Equal(t, clock.t.Add(500*time.Millisecond), th.next(), "the remaining half unit shortens the wait")

	clock.t = start.Add(time.Hour)
	assert.Equal(t, clock.t, th.next())
	assert.Equal(t, clock.t, th.next())
	assert.Equal(t, clock.t.Add(time.Second), th.next(), "credit is capped at the burst")
}

func TestThrottleWaitCanceled(t *testing.T) {
	th, clock := newTestThrottle(1, 1) // one per minute
	start := clock.t
	assert.NoError(t, th.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, th.wait(ctx), context.Canceled)

	// the canceled publish does not hold a slot
	assert.Equal(t, start.Add(time.Minute), th.next())
	assert.Equal(t, start.Add(2*time.Minute), th.next())
}

func TestThrottleReleaseRestoresPartialCredit(t *testing.T) {
	th, clock := newTestThrottle(60, 1)
	start := clock.t

	th.next()
	clock.t = start.Add(500 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, th.wait(ctx), context.Canceled)

	assert.Equal(t, start.Add(time.Second), th.next(), "half a unit had dripped in before the canceled wait")
}
