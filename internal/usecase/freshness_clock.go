package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultFreshnessTick = time.Second

// FreshnessClock counts ticks since the last Reset. It keeps counting while
// polling is paused so the value reflects real staleness.
type FreshnessClock struct {
	tick   time.Duration
	onTick func(seconds int64)

	seconds atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFreshnessClock creates a clock; onTick may be nil and is called from the
// clock goroutine after every increment.
func NewFreshnessClock(tick time.Duration, onTick func(seconds int64)) *FreshnessClock {
	if tick <= 0 {
		tick = DefaultFreshnessTick
	}
	return &FreshnessClock{tick: tick, onTick: onTick}
}

func (c *FreshnessClock) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.run(ctx)
}

func (c *FreshnessClock) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *FreshnessClock) Seconds() int64 {
	return c.seconds.Load()
}

func (c *FreshnessClock) Reset() {
	c.seconds.Store(0)
}

func (c *FreshnessClock) run(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := c.seconds.Add(1)
			if c.onTick != nil {
				c.onTick(n)
			}
		}
	}
}
