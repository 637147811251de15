package vclock

import (
	"math"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestSleepAdvances(t *testing.T) {
	c := qt.New(t)
	var clk Clock
	c.Assert(clk.Millis(), qt.Equals, uint32(0))

	clk.Sleep(1500 * time.Microsecond)
	c.Assert(clk.Millis(), qt.Equals, uint32(1))
	clk.Sleep(-time.Second)
	c.Assert(clk.Now(), qt.Equals, 1500*time.Microsecond)
	clk.Sleep(500 * time.Microsecond)
	c.Assert(clk.Millis(), qt.Equals, uint32(2))
}

func TestMillisWraps(t *testing.T) {
	c := qt.New(t)
	var clk Clock
	clk.Set(math.MaxUint32 * time.Millisecond)
	c.Assert(clk.Millis(), qt.Equals, uint32(math.MaxUint32))
	clk.Sleep(time.Millisecond)
	c.Assert(clk.Millis(), qt.Equals, uint32(0))
}
