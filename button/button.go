// Package button turns raw input lines into debounced presses.
package button

// Input is a digital input line. machine.Pin, pcf8574.InputPin and mpr121.Pad satisfy it.
type Input interface {
	Get() bool
}

// Func adapts a plain function to Input.
type Func func() bool

func (f Func) Get() bool { return f() }

type activeLow struct {
	in Input
}

func (a activeLow) Get() bool { return !a.in.Get() }

// ActiveLow inverts a line, for switches that pull a pulled-up pin to ground when pressed.
func ActiveLow(in Input) Input {
	return activeLow{in}
}

// DefaultInterval is the quiet time in milliseconds required between two accepted presses.
const DefaultInterval = 300

// Guard debounces one logical action. It remembers when a press was last accepted and
// rejects further presses until Interval milliseconds have passed. Times are readings of a
// free-running uint32 millisecond counter; the subtraction is modular, so a single counter
// wrap between two presses is harmless.
//
// The zero value accepts its first press immediately and uses DefaultInterval.
type Guard struct {
	Interval uint32

	last  uint32
	armed bool
}

// Ready reports whether a press at now would be accepted.
func (g *Guard) Ready(now uint32) bool {
	interval := g.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	return !g.armed || now-g.last >= interval
}

// Mark records an accepted press at now.
func (g *Guard) Mark(now uint32) {
	g.last = now
	g.armed = true
}

// Accept marks and returns true if pressed is set and the guard is ready.
func (g *Guard) Accept(pressed bool, now uint32) bool {
	if !pressed || !g.Ready(now) {
		return false
	}
	g.Mark(now)
	return true
}
