package aio

import (
	"context"
	"sync"
	"time"
)

// throttle spaces publishes with a leaky bucket.
//
// Credit drips in at rate per second and accumulates up to burst; a publish spends
// one unit of credit. A publish that finds less than one unit is scheduled at the
// time the missing credit will have dripped in, and later callers queue behind it.
//
// throttle is safe for concurrent use.
type throttle struct {
	mu          sync.Mutex
	rate        float64 // publishes per second
	burst       float64
	accumulated float64
	lastDrip    time.Time
	now         func() time.Time
}

// newThrottle creates a throttle allowing perMinute publishes per minute.
// The bucket starts full.
func newThrottle(perMinute float64, burst int) *throttle {
	if burst < 1 {
		burst = 1
	}

	t := &throttle{
		rate:        perMinute / 60,
		burst:       float64(burst),
		accumulated: float64(burst),
		now:         time.Now,
	}
	t.lastDrip = t.now()

	return t
}

// next reserves a publish and returns when it may happen.
func (t *throttle) next() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	if elapsed := now.Sub(t.lastDrip); elapsed > 0 {
		t.accumulated += elapsed.Seconds() * t.rate
		if t.accumulated > t.burst {
			t.accumulated = t.burst
		}
		t.lastDrip = now
	}

	if t.accumulated >= 1 {
		t.accumulated--
		return now
	}

	deficit := 1 - t.accumulated
	at := t.lastDrip.Add(time.Duration(deficit / t.rate * float64(time.Second)))

	// the reservation consumes everything up to at
	t.accumulated = 0
	t.lastDrip = at

	return at
}

// release returns the credit of a reservation that was not used.
func (t *throttle) release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastDrip = t.lastDrip.Add(-time.Duration(float64(time.Second) / t.rate))
}

// wait blocks until a publish may happen or ctx is done.
// A canceled wait gives its reservation back.
func (t *throttle) wait(ctx context.Context) error {
	d := t.next().Sub(t.now())
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		t.release()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
