// Package transfer moves file bytes between local storage and the
// object-storage backend on a bounded worker pool, reporting throttled
// progress back to the caller.
package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is one sample of a transfer's position.
type Progress struct {
	Transferred int64
	Total       int64
}

// Percent returns the completion percentage, 0 when the total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Transferred) / float64(p.Total) * 100
}

// NotifyFunc delivers one throttled progress notification to a
// human-facing status display. It runs on the engine's notification
// goroutine, never on a transfer worker. Returning an error never fails
// the transfer; returning *RetryAfter pauses further notifications.
type NotifyFunc func(p Progress) error

// RetryAfter is returned by a NotifyFunc when the display channel is
// rate-limited. The throttler pauses notification delivery for Delay
// without interrupting the underlying transfer.
type RetryAfter struct {
	Delay time.Duration
}

func (e *RetryAfter) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.Delay)
}

// RenderProgress formats a progress sample as status-display text, with
// a ten-segment bar and human-readable byte counts.
func RenderProgress(action string, p Progress) string {
	pct := p.Percent()
	filled := int(pct / 10)
	if filled > 10 {
		filled = 10
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)

	return fmt.Sprintf("%s\n%.1f%% [%s]\n%s / %s",
		action, pct, bar,
		humanize.Bytes(uint64(p.Transferred)),
		humanize.Bytes(uint64(p.Total)))
}
