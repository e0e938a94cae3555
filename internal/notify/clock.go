package notify

import (
	"context"
	"sync"
	"time"
)

// DefaultClockInterval is used when a Clock is started with a non-positive
// interval.
const DefaultClockInterval = time.Minute

// Clock calls a function on a ticker until stopped. It can be started again
// after Stop.
type Clock struct {
	tick func(now time.Time)
	now  func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClock creates an idle Clock that will call tick with the current time.
func NewClock(tick func(now time.Time)) *Clock {
	return &Clock{tick: tick, now: time.Now}
}

// Start stops any previous run, then calls tick every interval until ctx is
// cancelled or Stop is called.
func (c *Clock) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultClockInterval
	}

	c.Stop()

	c.mu.Lock()
	clockCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-clockCtx.Done():
				return
			case <-t.C:
				c.tick(c.now())
			}
		}
	}()
}

// Stop cancels the running ticker and waits for it to exit. It is a no-op
// on an idle Clock.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Running reports whether the clock is started.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
