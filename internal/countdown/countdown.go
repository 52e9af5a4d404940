// Package countdown runs the landing page redirect countdown.
package countdown

import (
	"context"
	"time"
)

// DefaultSeconds is the landing page delay before redirecting to the latest version.
const DefaultSeconds = 30

// Ticker is the subset of *time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc creates a Ticker firing every d.
type NewTickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// RealTicker wraps time.NewTicker.
func RealTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Countdown decrements once per interval and fires OnDone once after
// reaching zero.
type Countdown struct {
	// Seconds is the starting value shown before the first tick.
	Seconds int
	// Interval between ticks. Zero means one second.
	Interval time.Duration
	// NewTicker creates the ticker. Nil uses RealTicker.
	NewTicker NewTickerFunc
	// OnTick receives each remaining value after it is decremented, ending with 0.
	OnTick func(remaining int)
	// OnDone performs the redirect.
	OnDone func()
}

// Run blocks until the countdown completes or ctx is canceled. A canceled
// countdown never calls OnDone and returns the context's error. A
// non-positive Seconds fires OnDone immediately without ticking.
func (c *Countdown) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	remaining := c.Seconds
	if remaining <= 0 {
		c.done()
		return nil
	}

	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}
	newTicker := c.NewTicker
	if newTicker == nil {
		newTicker = RealTicker
	}

	ticker := newTicker(interval)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			remaining--
			if c.OnTick != nil {
				c.OnTick(remaining)
			}
		}
	}

	c.done()
	return nil
}

func (c *Countdown) done() {
	if c.OnDone != nil {
		c.OnDone()
	}
}
