package assetsapi

import (
	"context"
	"time"
)

// The hosted API allows 1000 requests per minute; stay under it so a burst
// of parallel workers does not trip the remote limiter.
const defaultThrottleLimit = 975

// throttle counts requests per wall-clock minute. Once the budget for the
// current minute is spent, wait blocks until the minute rolls over. The
// check-and-increment is the single point of serialization shared by all
// workers.
type throttle struct {
	limit  int
	sem    chan struct{}
	minute int
	count  int
}

func newThrottle(limit int) *throttle {
	t := &throttle{limit: limit, sem: make(chan struct{}, 1), minute: time.Now().Minute()}
	t.sem <- struct{}{}
	return t
}

func (t *throttle) wait(ctx context.Context) error {
	select {
	case <-t.sem:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { t.sem <- struct{}{} }()

	for {
		now := time.Now().Minute()
		if now != t.minute {
			t.minute = now
			t.count = 0
		}
		if t.count < t.limit {
			t.count++
			return nil
		}
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
