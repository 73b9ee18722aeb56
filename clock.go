package voronoi

import (
	"time"
)

// Clock measures elapsed time since Start for the animation and the frame delta
// between ticks.
type Clock struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration

	now func() time.Time
}

func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	start := now()
	return &Clock{
		Start: start,
		Time:  start,
		now:   now,
	}
}

// Tick advances the clock and returns the elapsed seconds since Start.
func (c *Clock) Tick() float64 {
	now := c.now()
	c.Dt = now.Sub(c.Time)
	c.Time = now
	return c.Elapsed()
}

func (c *Clock) Elapsed() float64 {
	return c.Time.Sub(c.Start).Seconds()
}
