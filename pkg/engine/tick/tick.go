// Package tick drives simulations at a fixed rate.
package tick

import (
	"context"
	"time"
)

// DefaultRate is the number of ticks per second used when none is configured.
const DefaultRate = 60

// Ticker is advanced once per tick: Process handles state changes, Physics
// moves things. Both receive the tick length in seconds.
type Ticker interface {
	Process(dt float64)
	Physics(dt float64)
}

// Step advances t by a single tick of dt seconds.
func Step(t Ticker, dt float64) {
	t.Process(dt)
	t.Physics(dt)
}

// Run advances t by n ticks at rate ticks per second without waiting between
// them. It is used for headless runs and tests.
func Run(t Ticker, rate, n int) {
	dt := 1 / float64(rate)
	for range n {
		Step(t, dt)
	}
}

// Loop advances t at rate ticks per second until ctx is done. Ticks missed
// while the host is busy are dropped rather than replayed.
func Loop(ctx context.Context, t Ticker, rate int) error {
	if rate <= 0 {
		rate = DefaultRate
	}
	dt := 1 / float64(rate)

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			Step(t, dt)
		}
	}
}
