package playback

import (
	"context"
	"time"

	"github.com/banshee-data/trackreplay/internal/timeutil"
)

// Run calls fn with the tick time every interval until ctx is done.
func Run(ctx context.Context, clock timeutil.Clock, interval time.Duration, fn func(now time.Time)) error {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	logf("frame loop started (%s)", interval)
	for {
		select {
		case <-ctx.Done():
			logf("frame loop stopped")
			return ctx.Err()
		case now := <-ticker.C():
			fn(now)
		}
	}
}
