package application

import (
	"context"
	"time"
)

// Poll invokes fn immediately and then once per interval until the
// context is cancelled. The ticker is always released; cancellation
// between ticks does not leak it.
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	fn(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
