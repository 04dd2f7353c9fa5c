package browser

import (
	"context"
	"time"
)

// Condition reports whether the awaited page state has been reached
type Condition func(ctx context.Context) (bool, error)

// WaitFor polls cond every interval until it holds, the timeout elapses or
// ctx is done. Reaching the timeout is not an error: it returns false.
func WaitFor(ctx context.Context, timeout, interval time.Duration, cond Condition) (bool, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
		}
	}
}
