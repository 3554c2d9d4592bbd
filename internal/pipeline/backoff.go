package pipeline

import (
	"context"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	minBackoff = 200 * time.Millisecond
	maxBackoff = 5 * time.Second
)

// backoff doubles the retry delay after each failure up to a cap and resets
// once a batch is extracted again.
type backoff struct {
	current time.Duration
	initial time.Duration
	limit   time.Duration
}

func newBackoff(initial, limit time.Duration) *backoff {
	return &backoff{current: initial, initial: initial, limit: limit}
}

func (b *backoff) reset() {
	b.current = b.initial
}

// wait sleeps for the current delay and advances it. Returns false if the
// context was cancelled first.
func (b *backoff) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, b.current) {
		return false
	}
	b.current = retry.NextBackoff(b.current, b.limit)
	return true
}
