package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackreplay/internal/timeutil"
)

func TestRun(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan time.Time, 4)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, clock, 16*time.Millisecond, func(now time.Time) { ticks <- now })
	}()

	require.Eventually(t, func() bool { return clock.Tickers() == 1 }, time.Second, time.Millisecond)
	clock.Advance(16 * time.Millisecond)

	select {
	case now := <-ticks:
		assert.Equal(t, clock.Now(), now)
	case <-time.After(time.Second):
		t.Fatal("tick not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
