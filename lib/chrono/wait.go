package chrono

import (
	"context"
	"time"
)

const DefaultPollInterval = 100 * time.Millisecond

// WaitUntil blocks until clock reports a time at or after target.
// It polls every interval, calling onTick (if non-nil) with the time
// remaining before each sleep. The only early exit is ctx being done.
func WaitUntil(ctx context.Context, clock API, target time.Time, interval time.Duration, onTick func(remaining time.Duration)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		now := clock.Now()
		if !now.Before(target) {
			return nil
		}
		if onTick != nil {
			onTick(target.Sub(now))
		}
		err := clock.Sleep(ctx, interval)
		if err != nil {
			return err
		}
	}
}
