package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockBeatsAndAutosaves(t *testing.T) {
	c := NewClock(time.Millisecond)
	c.AutosaveEvery = 3
	var saves []uint64
	c.OnBeat = func(beat uint64) {
		if beat == 6 {
			c.Stop()
		}
	}
	c.OnAutosave = func(beat uint64) { saves = append(saves, beat) }

	c.Run(context.Background())
	assert.Equal(t, uint64(6), c.Beat)
	assert.Equal(t, []uint64{3, 6}, saves)
	assert.False(t, c.Running())
}

func TestClockStopFromAnotherGoroutine(t *testing.T) {
	c := NewClock(time.Millisecond)
	var beats atomic.Int64
	c.OnBeat = func(uint64) { beats.Add(1) }

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return beats.Load() >= 2 }, time.Second, time.Millisecond)
	assert.True(t, c.Running())
	c.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("clock did not stop")
	}
	assert.False(t, c.Running())
}

func TestClockStopsOnContext(t *testing.T) {
	c := NewClock(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	c.OnBeat = func(uint64) { cancel() }

	c.Run(ctx)
	assert.Equal(t, uint64(1), c.Beat)
	assert.False(t, c.Running())
}

func TestNewClockDefaults(t *testing.T) {
	c := NewClock(0)
	assert.Equal(t, 5*time.Second, c.Interval)
	assert.Equal(t, uint64(12), c.AutosaveEvery)
}
