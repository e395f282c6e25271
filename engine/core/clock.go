package core

import "time"

// MaxFrameTime caps a single frame's delta so a stall (window drag,
// breakpoint) does not teleport every animation.
const MaxFrameTime = 0.25

// Frame is the timing snapshot handed to everything animated this frame.
type Frame struct {
	Tick    uint64
	Elapsed float64 // seconds of unpaused time since start
	Millis  float64 // Elapsed in milliseconds
	Delta   float64 // seconds since the previous frame, capped
}

// Clock turns wall time into per-frame deltas and a monotonic elapsed time
// that stands still while paused.
type Clock struct {
	Paused bool

	now     func() time.Time
	last    time.Time
	elapsed float64
	tick    uint64
}

// NewClock starts a clock at the current time.
func NewClock() *Clock {
	return NewClockAt(time.Now)
}

// NewClockAt uses now as its time source.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now, last: now()}
}

// Advance should be called once per update. It returns the frame snapshot.
func (c *Clock) Advance() Frame {
	t := c.now()
	dt := t.Sub(c.last).Seconds()
	c.last = t

	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameTime {
		dt = MaxFrameTime
	}
	if c.Paused {
		dt = 0
	}
	c.elapsed += dt
	c.tick++
	return c.Frame(dt)
}

// Frame reports the current time without advancing it.
func (c *Clock) Frame(delta float64) Frame {
	return Frame{
		Tick:    c.tick,
		Elapsed: c.elapsed,
		Millis:  c.elapsed * 1000,
		Delta:   delta,
	}
}

// TogglePause flips Paused and reports the new state.
func (c *Clock) TogglePause() bool {
	c.Paused = !c.Paused
	return c.Paused
}
