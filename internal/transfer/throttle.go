package transfer

import (
	"errors"
	"time"
)

// DefaultProgressStep is the minimum percentage gap between two emitted
// notifications.
const DefaultProgressStep = 5.0

// Throttler converts a continuous stream of progress samples into a
// sparse stream of notifications: one per step percentage points, plus
// always at 100%. Out-of-order or repeated samples at or below the last
// emitted percentage are dropped, so within one transfer notifications
// are delivered in strictly increasing percentage order.
//
// Notification delivery failures are suppressed; a *RetryAfter error
// pauses delivery for the indicated duration without affecting the
// transfer itself. A completion sample arriving inside the pause window
// is held and delivered by Flush. Throttler is not safe for concurrent use — the engine
// drives it from a single goroutine.
type Throttler struct {
	step        float64
	notify      NotifyFunc
	lastEmitted float64
	emitted     bool
	pausedUntil time.Time
	pending     *Progress // completion sample suppressed by a pause

	now   func() time.Time    // stubbed in tests
	sleep func(time.Duration) // stubbed in tests
}

// NewThrottler builds a throttler delivering through notify. A step of 0
// or less falls back to DefaultProgressStep.
func NewThrottler(step float64, notify NotifyFunc) *Throttler {
	if step <= 0 {
		step = DefaultProgressStep
	}
	return &Throttler{step: step, notify: notify, now: time.Now, sleep: time.Sleep}
}

// Observe feeds one progress sample, emitting a notification when the
// sample crosses the step boundary or reaches 100%.
func (t *Throttler) Observe(p Progress) {
	if t.notify == nil {
		return
	}

	pct := p.Percent()
	if t.emitted && pct <= t.lastEmitted {
		return
	}
	if t.emitted && pct-t.lastEmitted < t.step && pct < 100 {
		return
	}
	if t.now().Before(t.pausedUntil) {
		// A completion sample must not be lost to a backoff window;
		// Flush delivers it once the stream ends.
		if pct >= 100 {
			t.pending = &p
		}
		return
	}

	t.lastEmitted = pct
	t.emitted = true
	if pct >= 100 {
		t.pending = nil
	}

	if err := t.notify(p); err != nil {
		var ra *RetryAfter
		if errors.As(err, &ra) {
			t.pausedUntil = t.now().Add(ra.Delay)
		}
		// All other delivery failures are dropped; the transfer must
		// never be interrupted by a status-display problem.
	}
}

// Flush delivers a completion notification that a retry-after pause
// suppressed, waiting out the remainder of the pause so the requested
// backoff is honored. The engine calls it once the sample stream ends.
func (t *Throttler) Flush() {
	if t.pending == nil || t.notify == nil {
		return
	}
	p := *t.pending
	t.pending = nil
	if t.emitted && t.lastEmitted >= p.Percent() {
		return
	}
	if wait := t.pausedUntil.Sub(t.now()); wait > 0 {
		t.sleep(wait)
	}
	t.lastEmitted = p.Percent()
	t.emitted = true
	t.notify(p)
}
