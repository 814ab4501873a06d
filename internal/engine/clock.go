package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Clock drives live play forward at a fixed interval.
type Clock struct {
	Beat     uint64        // Beats since start; only the Run goroutine writes it
	Interval time.Duration // Beat interval, economy.tickMs

	// AutosaveEvery is the number of beats between OnAutosave calls.
	AutosaveEvery uint64

	OnBeat     func(beat uint64) // Every beat: one tick per live session
	OnAutosave func(beat uint64) // Every AutosaveEvery beats

	running atomic.Bool
}

// NewClock creates a clock with the given interval.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Clock{
		Interval:      interval,
		AutosaveEvery: 12,
	}
}

// Run starts the loop. It blocks until ctx is done or Stop is called.
func (c *Clock) Run(ctx context.Context) {
	c.running.Store(true)
	slog.Info("clock started", "beat", c.Beat, "interval", c.Interval)

	for c.running.Load() {
		start := time.Now()

		c.step()

		elapsed := time.Since(start)
		if elapsed < c.Interval && !sleep(ctx, c.Interval-elapsed) {
			break
		}
	}

	c.running.Store(false)
	slog.Info("clock stopped", "beat", c.Beat)
}

// Running reports whether Run is looping.
func (c *Clock) Running() bool {
	return c.running.Load()
}

// Stop halts the loop after the current beat. It is safe to call from any
// goroutine.
func (c *Clock) Stop() {
	c.running.Store(false)
}

func (c *Clock) step() {
	c.Beat++

	if c.OnBeat != nil {
		c.OnBeat(c.Beat)
	}
	if c.AutosaveEvery > 0 && c.Beat%c.AutosaveEvery == 0 && c.OnAutosave != nil {
		c.OnAutosave(c.Beat)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
