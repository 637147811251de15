// Package vclock provides a virtual millisecond clock for running firmware logic on a host
// without real delays: sleeping simply moves the clock forward.
package vclock

import "time"

type Clock struct {
	now time.Duration
}

// Millis returns elapsed virtual time in whole milliseconds. Like a hardware tick counter it
// wraps after about 49.7 days.
func (c *Clock) Millis() uint32 {
	return uint32(c.now / time.Millisecond)
}

// Now returns elapsed virtual time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Sleep advances the clock by d. Negative durations are ignored.
func (c *Clock) Sleep(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Set moves the clock to an absolute time.
func (c *Clock) Set(now time.Duration) {
	c.now = now
}
